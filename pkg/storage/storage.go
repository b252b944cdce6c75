// Package storage persists screenshots outside the agent loop's hot path.
// Tools store image bytes here and hand the agent a reference, never inline
// payloads.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/entrhq/autopilot/pkg/config"
)

// Store writes and reads screenshot blobs by key.
type Store interface {
	// Put stores the reader's content under key and returns a reference
	// (URL or path) callers can hand to the agent or end user.
	Put(ctx context.Context, key string, r io.Reader) (string, error)

	// Get retrieves previously stored content.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content at key.
	Delete(ctx context.Context, key string) error
}

// New builds a Store from configuration.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg.BaseDir)
	case "s3":
		return NewS3Store(ctx, cfg.Bucket, cfg.Region)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
