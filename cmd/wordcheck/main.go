// Command wordcheck classifies text against a word file and lints word
// files, using the same filter as the server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamup/internal/config"
	"teamup/internal/wordfilter"
)

var (
	// errBlocked makes classify exit non-zero for forbidden content.
	errBlocked = errors.New("content is blocked")
	// errIssues makes lint exit non-zero when the word file has problems.
	errIssues = errors.New("word file has issues")
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errBlocked) && !errors.Is(err, errIssues) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var wordsFile string

	root := &cobra.Command{
		Use:           "wordcheck",
		Short:         "Check event text against the content filter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&wordsFile, "words", "words.yaml", "Word file path")

	root.AddCommand(newClassifyCmd(&wordsFile))
	root.AddCommand(newLintCmd(&wordsFile))
	return root
}

func newClassifyCmd(wordsFile *string) *cobra.Command {
	var (
		name        string
		description string
		outputJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an event name and description",
		Long: `Classify an event name and description the way the server does:
blocked if a forbidden word occurs, needs_review if an unnecessary word
occurs, clean otherwise. Exits with status 1 when the text is blocked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := config.LoadWordLists(*wordsFile)
			if err != nil {
				return err
			}
			verdict := wordfilter.New(lists.Forbidden, lists.Unnecessary).Inspect(name, description)

			out := cmd.OutOrStdout()
			if outputJSON {
				if err := json.NewEncoder(out).Encode(verdict); err != nil {
					return err
				}
			} else if verdict.Classification == wordfilter.Clean {
				fmt.Fprintln(out, verdict.Classification)
			} else {
				fmt.Fprintf(out, "%s: %q in %s\n", verdict.Classification, verdict.Word, verdict.Field)
			}

			if verdict.Classification == wordfilter.Blocked {
				return errBlocked
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Event name")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	return cmd
}

func newLintCmd(wordsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report empty, duplicate and overlapping entries in a word file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := config.LoadWordLists(*wordsFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			issues := wordfilter.Lint(lists.Forbidden, lists.Unnecessary)
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			if len(issues) > 0 {
				return errIssues
			}

			forbidden, unnecessary := wordfilter.New(lists.Forbidden, lists.Unnecessary).Sizes()
			fmt.Fprintf(out, "ok: %d forbidden, %d unnecessary\n", forbidden, unnecessary)
			return nil
		},
	}
}
