package artifact

import (
	"context"
	"fmt"

	"github.com/newthinker/sentiq/internal/core"
)

// Store persists run artifacts (CSV tables, JSON documents, metric dumps)
type Store interface {
	// Put writes data at path, replacing any previous content
	Put(ctx context.Context, path string, data []byte) error

	// Get returns the content stored at path
	Get(ctx context.Context, path string) ([]byte, error)

	// List returns every stored path under prefix, relative to the store root
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether path has been written
	Exists(ctx context.Context, path string) (bool, error)
}

// Backend types
const (
	TypeLocalFS = "localfs"
	TypeS3      = "s3"
)

// Config selects and configures a Store backend
type Config struct {
	Type string
	Path string // root directory for localfs
	S3   S3Config
}

// New creates the Store described by cfg. An empty type means localfs.
func New(cfg Config) (Store, error) {
	switch cfg.Type {
	case "", TypeLocalFS:
		if cfg.Path == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("output.path is required for localfs"))
		}
		return NewLocalStore(cfg.Path)
	case TypeS3:
		if cfg.S3.Bucket == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("output.s3.bucket is required for s3"))
		}
		return NewS3Store(cfg.S3)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown output type %q", cfg.Type))
	}
}
