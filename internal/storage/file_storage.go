package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/garyjia/invoice-labeler/pkg/utils"
	"go.uber.org/zap"
)

// FileStorage writes batch outputs (annotated invoices, reports)
type FileStorage interface {
	// Save writes content under the base directory as a single file named
	// after name, returning the full path
	Save(name string, content []byte) (string, error)

	// ValidatePath checks path security (no traversal, within base)
	ValidatePath(fullPath string) error
}

var _ FileStorage = (*LocalFileStorage)(nil)

// LocalFileStorage implements FileStorage for local filesystem
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a new LocalFileStorage
func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// BaseDir returns the output directory
func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

// Save writes content to baseDir/name. Path separators in name are
// replaced, so a label such as "3/8" never creates subdirectories.
func (s *LocalFileStorage) Save(name string, content []byte) (string, error) {
	fullPath := filepath.Join(s.baseDir, utils.SafeFileName(name))

	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		s.logger.Error("Failed to create output directory",
			zap.String("path", s.baseDir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved successfully",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// ValidatePath checks that the path is safe and within baseDir
func (s *LocalFileStorage) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}
