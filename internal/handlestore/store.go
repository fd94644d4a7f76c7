package handlestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/platform/s3"
	"github.com/soulscript/notionkit/internal/provisioning"
)

// ErrLocked is returned by Lock when another run holds the location.
var ErrLocked = errors.New("setup already running for this location")

// Unlock releases a lock taken with Store.Lock.
type Unlock func(ctx context.Context) error

// Store loads and saves workspace handles keyed by parent location.
type Store interface {
	// Load returns the saved handle, or a zero Workspace if none exists.
	Load(ctx context.Context, parentID string) (provisioning.Workspace, error)
	// Save replaces the handle for parentID.
	Save(ctx context.Context, parentID string, ws provisioning.Workspace) error
	// Lock claims parentID for one run. It fails with ErrLocked if the
	// location is already claimed.
	Lock(ctx context.Context, parentID string) (Unlock, error)
}

// New creates the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.StoreMemory, "":
		return NewMemory(), nil
	case config.StoreFile:
		return NewFile(cfg.File), nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedis(client, cfg.Redis.Prefix, cfg.Redis.LockTTL), nil
	case config.StoreS3:
		client, err := s3.NewClient(ctx, s3.Options{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.Endpoint != "",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		return NewS3(client, cfg.S3.Prefix, config.DefaultLockTTL), nil
	default:
		return nil, fmt.Errorf("unknown handle store backend %q", cfg.Backend)
	}
}

// safeKey maps a parent ID onto characters valid in file names and keys.
func safeKey(parentID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, parentID)
}

func requireParent(parentID string) error {
	if parentID == "" {
		return fmt.Errorf("parent location id is required")
	}
	return nil
}
