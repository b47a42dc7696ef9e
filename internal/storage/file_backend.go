package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBackend keeps every slot in one JSON document. Writes go through a temp
// file and a rename so a crash never leaves a half-written document.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

type fileDocument struct {
	Slots map[string]string `json:"slots"`
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Get(_ context.Context, slot string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, err := b.read()
	if err != nil {
		return "", false, err
	}
	payload, ok := doc.Slots[slot]
	return payload, ok, nil
}

// Put rewrites the document with slot set to payload. A document that exists
// but cannot be parsed is left alone and ErrDeserialization is returned.
func (b *FileBackend) Put(_ context.Context, slot string, payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, err := b.read()
	if err != nil {
		return err
	}
	doc.Slots[slot] = payload
	return b.write(doc)
}

func (b *FileBackend) read() (fileDocument, error) {
	doc := fileDocument{Slots: make(map[string]string)}
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, b.path, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fileDocument{Slots: make(map[string]string)}, fmt.Errorf("%w: %s: %w", ErrDeserialization, b.path, err)
	}
	if doc.Slots == nil {
		doc.Slots = make(map[string]string)
	}
	return doc, nil
}

func (b *FileBackend) write(doc fileDocument) error {
	if dir := filepath.Dir(b.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create dir: %w", ErrStorageUnavailable, err)
		}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorageUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrStorageUnavailable, tmp, err)
	}
	return nil
}
