package handlestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/provisioning"
)

// handleFile is the on-disk layout of a File store.
type handleFile struct {
	Handles map[string]provisioning.Workspace `yaml:"handles"`
}

// File keeps all handles in one YAML file. Locks are lock files created
// next to it, so separate processes on the same host exclude each other.
// A lock whose owner process is gone, or that is older than the lock TTL,
// is taken over.
type File struct {
	path    string
	lockTTL time.Duration
	mu      sync.Mutex
}

// NewFile creates a store backed by the YAML file at path.
// The file and its directory are created on first save.
func NewFile(path string) *File {
	return &File{path: path, lockTTL: config.DefaultLockTTL}
}

func (f *File) Load(_ context.Context, parentID string) (provisioning.Workspace, error) {
	if err := requireParent(parentID); err != nil {
		return provisioning.Workspace{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	hf, err := f.read()
	if err != nil {
		return provisioning.Workspace{}, err
	}
	return hf.Handles[parentID], nil
}

func (f *File) Save(_ context.Context, parentID string, ws provisioning.Workspace) error {
	if err := requireParent(parentID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	hf, err := f.read()
	if err != nil {
		return err
	}
	hf.Handles[parentID] = ws
	return f.write(hf)
}

func (f *File) Lock(_ context.Context, parentID string) (Unlock, error) {
	if err := requireParent(parentID); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create handle directory: %w", err)
	}

	lockPath := f.path + "." + safeKey(parentID) + ".lock"
	if err := f.createLock(lockPath); err != nil {
		if !errors.Is(err, ErrLocked) {
			return nil, err
		}
		if !f.lockStale(lockPath) {
			return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, lockPath)
		}
		if rmErr := os.Remove(lockPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", rmErr)
		}
		if err := f.createLock(lockPath); err != nil {
			if errors.Is(err, ErrLocked) {
				return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, lockPath)
			}
			return nil, err
		}
	}

	var once sync.Once
	return func(context.Context) error {
		var err error
		once.Do(func() {
			if rmErr := os.Remove(lockPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = fmt.Errorf("failed to remove lock file: %w", rmErr)
			}
		})
		return err
	}, nil
}

func (f *File) createLock(lockPath string) error {
	lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrLocked
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	_, _ = fmt.Fprintf(lf, "%d\n", os.Getpid())
	return lf.Close()
}

// lockStale reports whether the lock at lockPath was left behind: it has
// outlived the lock TTL, or the process recorded in it no longer exists.
func (f *File) lockStale(lockPath string) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		return errors.Is(err, os.ErrNotExist)
	}
	if f.lockTTL > 0 && time.Since(info.ModTime()) > f.lockTTL {
		return true
	}

	data, err := os.ReadFile(lockPath)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false
	}
	return !processAlive(pid)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return !errors.Is(err, os.ErrProcessDone) && !errors.Is(err, syscall.ESRCH)
}

func (f *File) read() (*handleFile, error) {
	hf := &handleFile{}
	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read handle file: %w", err)
	default:
		if err := yaml.Unmarshal(data, hf); err != nil {
			return nil, fmt.Errorf("failed to parse handle file %s: %w", f.path, err)
		}
	}
	if hf.Handles == nil {
		hf.Handles = make(map[string]provisioning.Workspace)
	}
	return hf, nil
}

func (f *File) write(hf *handleFile) error {
	data, err := yaml.Marshal(hf)
	if err != nil {
		return fmt.Errorf("failed to marshal handles: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create handle directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write handle file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace handle file: %w", err)
	}
	return nil
}
