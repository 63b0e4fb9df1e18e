package apiclient

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TokenFile keeps the terminal client's session next to its cart.
type TokenFile struct {
	path string
}

func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Load returns the stored session, or nil when nobody is logged in.
func (f *TokenFile) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *TokenFile) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

func (f *TokenFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
