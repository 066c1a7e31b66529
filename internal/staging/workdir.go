package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// WorkDirPrefix names every per-invocation directory created under staging.
const WorkDirPrefix = "ytscribe-"

const lockFileName = "ytscribe.lock"

// WorkDir is a per-invocation scratch directory. Downloader output lands in
// AudioDir; everything else (cookie files) stays at Root.
type WorkDir struct {
	Root     string
	AudioDir string
}

// CreateWorkDir creates a unique work directory with an audio subdirectory
// beneath stagingDir. The staging directory itself is created when missing.
func CreateWorkDir(stagingDir string) (WorkDir, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return WorkDir{}, errors.New("staging directory not configured")
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return WorkDir{}, fmt.Errorf("create staging directory: %w", err)
	}
	root, err := os.MkdirTemp(stagingDir, WorkDirPrefix+"*")
	if err != nil {
		return WorkDir{}, fmt.Errorf("create work directory: %w", err)
	}
	audioDir := filepath.Join(root, "audio")
	if err := os.Mkdir(audioDir, 0o755); err != nil {
		_ = os.RemoveAll(root)
		return WorkDir{}, fmt.Errorf("create audio directory: %w", err)
	}
	return WorkDir{Root: root, AudioDir: audioDir}, nil
}

// Remove deletes the work directory and everything in it.
func (w WorkDir) Remove() error {
	if w.Root == "" {
		return nil
	}
	return os.RemoveAll(w.Root)
}

// Lock guards stale cleanup so that two servers sharing a staging directory
// never delete each other's live work directories.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the exclusive staging lock without blocking. The boolean
// reports whether the lock was obtained.
func AcquireLock(stagingDir string) (*Lock, bool, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("create staging directory: %w", err)
	}
	path := filepath.Join(stagingDir, lockFileName)
	l := &Lock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return l, true, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks the staging lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
