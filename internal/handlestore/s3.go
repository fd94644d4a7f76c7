package handlestore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/soulscript/notionkit/internal/platform/s3"
	"github.com/soulscript/notionkit/internal/provisioning"
)

// lockRecord is the body of a lock object.
type lockRecord struct {
	Token     string    `yaml:"token"`
	ExpiresAt time.Time `yaml:"expiresAt"`
}

// S3 stores each handle as a YAML object. Locks are lock objects written
// with a create-only put; an expired lock is broken by the next caller.
type S3 struct {
	client  *s3.Client
	prefix  string
	lockTTL time.Duration
	now     func() time.Time
}

// NewS3 creates a store writing objects under prefix in the client's bucket.
func NewS3(client *s3.Client, prefix string, lockTTL time.Duration) *S3 {
	return &S3{
		client:  client,
		prefix:  strings.Trim(prefix, "/"),
		lockTTL: lockTTL,
		now:     time.Now,
	}
}

func (s *S3) handleKey(parentID string) string {
	return path.Join(s.prefix, safeKey(parentID)+".yaml")
}

func (s *S3) lockKey(parentID string) string {
	return path.Join(s.prefix, safeKey(parentID)+".lock")
}

func (s *S3) Load(ctx context.Context, parentID string) (provisioning.Workspace, error) {
	if err := requireParent(parentID); err != nil {
		return provisioning.Workspace{}, err
	}
	data, err := s.client.GetObject(ctx, s.handleKey(parentID))
	if err != nil {
		if errors.Is(err, s3.ErrNotFound) {
			return provisioning.Workspace{}, nil
		}
		return provisioning.Workspace{}, fmt.Errorf("failed to load handle: %w", err)
	}

	var ws provisioning.Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return provisioning.Workspace{}, fmt.Errorf("failed to parse handle object: %w", err)
	}
	return ws, nil
}

func (s *S3) Save(ctx context.Context, parentID string, ws provisioning.Workspace) error {
	if err := requireParent(parentID); err != nil {
		return err
	}
	data, err := yaml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("failed to marshal handle: %w", err)
	}
	if err := s.client.PutObject(ctx, s.handleKey(parentID), data); err != nil {
		return fmt.Errorf("failed to save handle: %w", err)
	}
	return nil
}

func (s *S3) Lock(ctx context.Context, parentID string) (Unlock, error) {
	if err := requireParent(parentID); err != nil {
		return nil, err
	}
	key := s.lockKey(parentID)
	rec := lockRecord{Token: uuid.NewString(), ExpiresAt: s.now().Add(s.lockTTL).UTC()}
	body, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	// Second attempt only after breaking an expired lock.
	for attempt := 0; attempt < 2; attempt++ {
		created, err := s.client.PutObjectIfAbsent(ctx, key, body)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if created {
			return s.unlocker(key), nil
		}
		expired, err := s.lockExpired(ctx, key)
		if err != nil {
			return nil, err
		}
		if !expired {
			return nil, ErrLocked
		}
		if err := s.client.DeleteObject(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to break expired lock: %w", err)
		}
	}
	return nil, ErrLocked
}

func (s *S3) lockExpired(ctx context.Context, key string) (bool, error) {
	data, err := s.client.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, s3.ErrNotFound) {
			// Released between our put and get.
			return true, nil
		}
		return false, fmt.Errorf("failed to read lock: %w", err)
	}
	var rec lockRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		// Unreadable locks are treated as stale.
		return true, nil
	}
	return s.now().After(rec.ExpiresAt), nil
}

func (s *S3) unlocker(key string) Unlock {
	return func(ctx context.Context) error {
		if err := s.client.DeleteObject(ctx, key); err != nil {
			return fmt.Errorf("failed to release lock: %w", err)
		}
		return nil
	}
}
