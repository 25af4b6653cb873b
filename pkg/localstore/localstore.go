package localstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store persists uploaded files on the local filesystem.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// New creates the upload directory if needed and returns a Store.
func New(dir string, logger zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must be provided")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "localstore").Logger(),
	}, nil
}

// Save writes the file under a collision-free name and returns its path.
func (s *Store) Save(ctx context.Context, filename string, reader io.Reader) (string, error) {
	name := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(filename))
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("file stored")

	return path, nil
}

// Remove deletes a previously stored file. Paths outside the upload
// directory are rejected.
func (s *Store) Remove(ctx context.Context, path string) error {
	cleaned := filepath.Clean(path)
	if !strings.HasPrefix(cleaned, filepath.Clean(s.dir)+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the upload directory", path)
	}

	if err := os.Remove(cleaned); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "upload"
	}

	return base
}
