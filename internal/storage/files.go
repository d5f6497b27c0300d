package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload categories, one folder each under the configured root.
const (
	CategoryMedicalReports    = "medical_reports"
	CategoryApprovalLetters   = "approval_letters"
	CategoryVerificationCards = "verification_cards"
)

// FileStore writes uploaded artifacts once under generated names and reads
// them back many times. Fresh names per upload mean no concurrent-write
// hazard exists.
type FileStore struct {
	root    string
	allowed map[string]struct{}
}

func NewFileStore(root string, allowedExtensions []string) (*FileStore, error) {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	for _, category := range []string{CategoryMedicalReports, CategoryApprovalLetters, CategoryVerificationCards} {
		if err := os.MkdirAll(filepath.Join(root, category), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload folder: %w", err)
		}
	}

	return &FileStore{root: root, allowed: allowed}, nil
}

// Allowed reports whether the filename carries an accepted extension.
func (s *FileStore) Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

// Save writes an uploaded file under a uuid-prefixed name in the category
// folder and returns the stored path.
func (s *FileStore) Save(file *multipart.FileHeader, category string) (string, error) {
	if file == nil || file.Filename == "" {
		return "", fmt.Errorf("missing file")
	}
	if !s.Allowed(file.Filename) {
		return "", fmt.Errorf("disallowed file format: %s", file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s_%s", strings.ReplaceAll(uuid.New().String(), "-", ""), filepath.Base(file.Filename))
	path := filepath.Join(s.root, category, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Size returns the stored size of a saved artifact.
func (s *FileStore) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Exists reports whether a stored artifact is still present.
func (s *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
