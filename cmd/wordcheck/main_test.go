package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandStructure(t *testing.T) {
	cmd := newRootCmd()
	assert.NotNil(t, cmd.PersistentFlags().Lookup("words"))

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["classify"])
	assert.True(t, names["lint"])
}

func TestClassify(t *testing.T) {
	words := writeWords(t, "forbidden:\n  - casino\nunnecessary:\n  - promo\n")

	tests := []struct {
		name        string
		eventName   string
		description string
		wantOut     string
		wantErr     error
	}{
		{"clean", "Picnic", "Sandwiches", "clean\n", nil},
		{"needs review", "Picnic", "Big PROMO inside", "needs_review: \"promo\" in description\n", nil},
		{"blocked", "Casino night", "Poker", "blocked: \"casino\" in name\n", errBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run("classify", "--words", words, "--name", tt.eventName, "--description", tt.description)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestClassify_JSON(t *testing.T) {
	words := writeWords(t, "forbidden:\n  - casino\nunnecessary:\n  - promo\n")

	out, err := run("classify", "--words", words, "--name", "promo day", "--json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]string{
		"classification": "needs_review",
		"word":           "promo",
		"field":          "name",
	}, got)
}

func TestClassify_MissingWordFile(t *testing.T) {
	_, err := run("classify", "--words", filepath.Join(t.TempDir(), "nope.yaml"), "--name", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errBlocked)
}

func TestLint(t *testing.T) {
	t.Run("clean file", func(t *testing.T) {
		words := writeWords(t, "forbidden:\n  - casino\nunnecessary:\n  - promo\n")
		out, err := run("lint", "--words", words)
		require.NoError(t, err)
		assert.Equal(t, "ok: 1 forbidden, 1 unnecessary\n", out)
	})

	t.Run("issues", func(t *testing.T) {
		words := writeWords(t, "forbidden:\n  - casino\n  - Casino\nunnecessary:\n  - casinos\n")
		out, err := run("lint", "--words", words)
		assert.ErrorIs(t, err, errIssues)
		assert.Contains(t, out, `"casino" listed more than once`)
		assert.Contains(t, out, `unnecessary word "casinos" contains forbidden word "casino"`)
	})
}
