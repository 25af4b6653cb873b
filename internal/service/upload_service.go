package service

import (
	"context"
	"io"
)

// FileStore persists uploaded files and returns the stored path. The local
// disk implementation lives in pkg/localstore.
type FileStore interface {
	Save(ctx context.Context, filename string, reader io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}
