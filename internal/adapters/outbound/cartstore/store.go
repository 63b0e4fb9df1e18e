// Package cartstore keeps the client-local cart in a durable slot between
// command invocations.
package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/abdidvp/kraftstore/internal/domain"
)

// slot is the on-disk layout: one named key holding the cart.
type slot struct {
	Cart domain.Cart `json:"cart"`
}

// File is a JSON-file implementation of domain.CartRepository.
type File struct {
	path string
}

// NewFile returns a store writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the cart from disk. A missing file is an empty cart.
func (f *File) Load(_ context.Context) (domain.Cart, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Cart{}, nil
		}
		return nil, err
	}

	var s slot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding cart %s: %w", f.path, err)
	}
	if s.Cart == nil {
		s.Cart = domain.Cart{}
	}
	return s.Cart, nil
}

// Save writes the cart to disk, creating directories as needed.
func (f *File) Save(_ context.Context, c domain.Cart) error {
	if c == nil {
		c = domain.Cart{}
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(slot{Cart: c}, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Memory is an in-process domain.CartRepository.
type Memory struct {
	mu   sync.Mutex
	cart domain.Cart
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(domain.Cart{}, m.cart...), nil
}

func (m *Memory) Save(_ context.Context, c domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = append(domain.Cart{}, c...)
	return nil
}
