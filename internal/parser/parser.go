package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one key/value pair extracted from a source file, before any
// scheduling state is attached to it.
type Entry struct {
	Key   string
	Value string
}

const (
	keyPrefix   = "K:"
	valuePrefix = "V:"
)

type state int

const (
	seeking state = iota
	readingKey
	readingValue
)

// ParseFile reads a file from the given path and extracts all entries.
// Files ending in .json are parsed as the versioned JSON table format;
// everything else is parsed as the K:/V: text format.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseTable(file)
	}
	return Parse(file)
}

// Parse reads the K:/V: text format from an io.Reader and extracts all
// entries. Values may span multiple lines; a "---" line or a new K:
// prefix starts the next entry.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current Entry
	var currentBlock []string
	currentState := seeking

	flushBlock := func() {
		// Drop trailing blank lines so entries separated by empty lines
		// do not absorb them into the value.
		for len(currentBlock) > 0 && strings.TrimSpace(currentBlock[len(currentBlock)-1]) == "" {
			currentBlock = currentBlock[:len(currentBlock)-1]
		}
		if len(currentBlock) > 0 {
			content := strings.Join(currentBlock, "\n")
			switch currentState {
			case readingKey:
				current.Key = content
			case readingValue:
				current.Value = content
			}
			currentBlock = nil
		}
	}

	finishEntry := func() {
		flushBlock()
		if current.Key != "" && current.Value != "" {
			entries = append(entries, current)
		}
		current = Entry{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		isK := strings.HasPrefix(line, keyPrefix)
		isV := strings.HasPrefix(line, valuePrefix)
		isSeparator := line == "---"

		if isSeparator {
			finishEntry()
			continue
		}

		if isK || isV {
			flushBlock()

			if isK {
				if currentState != seeking { // A new key always starts a new entry
					finishEntry()
				}
				currentState = readingKey
				lineContent := line[len(keyPrefix):]
				if strings.HasPrefix(lineContent, " ") {
					lineContent = lineContent[1:]
				}
				currentBlock = append(currentBlock, lineContent)
			} else {
				currentState = readingValue
				lineContent := line[len(valuePrefix):]
				if strings.HasPrefix(lineContent, " ") {
					lineContent = lineContent[1:]
				}
				currentBlock = append(currentBlock, lineContent)
			}
		} else if currentState != seeking {
			currentBlock = append(currentBlock, line)
		}
	}

	finishEntry() // Finish the very last entry in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// tableFile is the JSON table format: a version marker and a list of
// two-element [key, value] rows.
type tableFile struct {
	Version int         `json:"version"`
	Data    [][2]string `json:"data"`
}

// tableVersion is the only supported table format version.
const tableVersion = 1

// ParseTable reads the JSON table format from an io.Reader.
func ParseTable(r io.Reader) ([]Entry, error) {
	var tf tableFile
	if err := json.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed to decode table file: %w", err)
	}
	if tf.Version != tableVersion {
		return nil, fmt.Errorf("unsupported table version %d, want %d", tf.Version, tableVersion)
	}

	entries := make([]Entry, 0, len(tf.Data))
	for _, row := range tf.Data {
		entries = append(entries, Entry{Key: row[0], Value: row[1]})
	}
	return entries, nil
}
