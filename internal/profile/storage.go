package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load reads a profile. A missing file yields an empty profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		return nil, fmt.Errorf("profile path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("failed to stat profile: %w", err)
	}
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile atomically.
func Save(path string, p *Profile) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "profile-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp profile: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close profile: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace profile: %w", err)
	}
	return nil
}
