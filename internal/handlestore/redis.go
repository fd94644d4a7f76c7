package handlestore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/soulscript/notionkit/internal/provisioning"
)

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-acquired by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	fieldIssues   = "issues"
	fieldTasks    = "tasks"
	fieldFeatures = "features"
)

// Redis stores each handle as a hash and locks with SET NX plus a TTL, so a
// crashed run cannot hold a location forever.
type Redis struct {
	client  *redis.Client
	prefix  string
	lockTTL time.Duration
}

// NewRedis creates a store using client. Keys are namespaced under prefix.
func NewRedis(client *redis.Client, prefix string, lockTTL time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, lockTTL: lockTTL}
}

func (r *Redis) handleKey(parentID string) string {
	return fmt.Sprintf("%s:handle:%s", r.prefix, parentID)
}

func (r *Redis) lockKey(parentID string) string {
	return fmt.Sprintf("%s:lock:%s", r.prefix, parentID)
}

func (r *Redis) Load(ctx context.Context, parentID string) (provisioning.Workspace, error) {
	if err := requireParent(parentID); err != nil {
		return provisioning.Workspace{}, err
	}
	fields, err := r.client.HGetAll(ctx, r.handleKey(parentID)).Result()
	if err != nil {
		return provisioning.Workspace{}, fmt.Errorf("failed to load handle: %w", err)
	}
	return provisioning.Workspace{
		IssuesDatabaseID:   fields[fieldIssues],
		TasksDatabaseID:    fields[fieldTasks],
		FeaturesDatabaseID: fields[fieldFeatures],
	}, nil
}

func (r *Redis) Save(ctx context.Context, parentID string, ws provisioning.Workspace) error {
	if err := requireParent(parentID); err != nil {
		return err
	}
	key := r.handleKey(parentID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if !ws.IsZero() {
			pipe.HSet(ctx, key,
				fieldIssues, ws.IssuesDatabaseID,
				fieldTasks, ws.TasksDatabaseID,
				fieldFeatures, ws.FeaturesDatabaseID,
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save handle: %w", err)
	}
	return nil
}

func (r *Redis) Lock(ctx context.Context, parentID string) (Unlock, error) {
	if err := requireParent(parentID); err != nil {
		return nil, err
	}
	key := r.lockKey(parentID)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, r.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock: %w", err)
		}
		return nil
	}, nil
}
