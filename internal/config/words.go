package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoWords is returned when a word file defines neither list.
var ErrNoWords = errors.New("word file defines no forbidden or unnecessary words")

// WordLists is the structure of the content filter's YAML file:
//
//	forbidden:
//	  - spam
//	unnecessary:
//	  - test
type WordLists struct {
	Forbidden   []string `yaml:"forbidden"`
	Unnecessary []string `yaml:"unnecessary"`
}

// LoadWordLists reads the word lists from path. Unlike most optional
// settings the file is required: the server refuses to start without it.
func LoadWordLists(path string) (*WordLists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word file: %w", err)
	}
	return ParseWordLists(data)
}

// ParseWordLists decodes word lists from YAML. Unknown keys are rejected so
// a typo such as "forbiden" does not silently disable a list.
func ParseWordLists(data []byte) (*WordLists, error) {
	var lists WordLists
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&lists); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoWords
		}
		return nil, fmt.Errorf("parse word file: %w", err)
	}
	if len(lists.Forbidden) == 0 && len(lists.Unnecessary) == 0 {
		return nil, ErrNoWords
	}
	return &lists, nil
}
