// Package storage resolves the model artifact to a file on local disk.
package storage

import (
	"context"
	"fmt"
	"os"
)

// Source yields the path of a readable model artifact.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	String() string
}

// LocalSource reads the artifact from a fixed path.
type LocalSource struct {
	Path string
}

func (s LocalSource) Fetch(ctx context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("local model %s: %w", s.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("local model %s is a directory", s.Path)
	}
	return s.Path, nil
}

func (s LocalSource) String() string {
	return "local:" + s.Path
}
