// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a word list. Files whose content starts with '[' are decoded as
// a JSON array of strings; anything else is read as one word per line.
func Load(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("word list path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []string
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode word list: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	words := Clean(raw)
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// LoadOrFallback returns the words at path, or the built-in pool together
// with the reason the file could not be used.
func LoadOrFallback(path string) ([]string, error) {
	words, err := Load(path)
	if err != nil {
		return Fallback(), err
	}
	return words, nil
}

// Fallback returns a copy of the built-in pool.
func Fallback() []string {
	return append([]string(nil), fallbackWords...)
}
