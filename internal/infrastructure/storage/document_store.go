// Package storage is the local-filesystem document store. Uploaded
// requirement files and receipts are written under a base directory and
// addressed by opaque references; the workflow never sees filesystem paths.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jcabrera/civil-registry/internal/application/port"
	"go.uber.org/zap"
)

// ErrInvalidReference is returned for references that do not resolve inside
// the store's base directory
var ErrInvalidReference = errors.New("invalid document reference")

// LocalDocumentStore implements port.DocumentStore on the local filesystem
type LocalDocumentStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalDocumentStore creates a new LocalDocumentStore
func NewLocalDocumentStore(baseDir string, logger *zap.Logger) port.DocumentStore {
	return &LocalDocumentStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Store writes content under a uuid-prefixed name and returns the reference
func (s *LocalDocumentStore) Store(ctx context.Context, name string, content []byte) (string, error) {
	reference := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeName(name))

	fullPath, err := s.resolve(reference)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		s.logger.Error("Failed to create store directory",
			zap.String("path", s.baseDir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write document",
			zap.String("reference", reference),
			zap.Error(err))
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	s.logger.Debug("Document stored",
		zap.String("reference", reference),
		zap.Int("size", len(content)))

	return reference, nil
}

// Resolve maps a reference to its path inside the base directory
func (s *LocalDocumentStore) Resolve(reference string) (string, error) {
	return s.resolve(reference)
}

// Exists reports whether the reference resolves to stored content
func (s *LocalDocumentStore) Exists(ctx context.Context, reference string) bool {
	fullPath, err := s.resolve(reference)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// resolve validates that the reference stays within baseDir
func (s *LocalDocumentStore) resolve(reference string) (string, error) {
	if reference == "" {
		return "", ErrInvalidReference
	}

	fullPath, err := filepath.Abs(filepath.Join(s.baseDir, reference))
	if err != nil {
		return "", fmt.Errorf("failed to resolve reference: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}

	if fullPath != absBase && !strings.HasPrefix(fullPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the store", ErrInvalidReference, reference)
	}

	return fullPath, nil
}

// sanitizeName strips path separators and control characters from an
// uploaded file name
func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		if r < 32 || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}

// Verify interface compliance
var _ port.DocumentStore = (*LocalDocumentStore)(nil)
