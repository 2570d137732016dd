package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mcmpmgr/mcmpmgr/logging"
)

// SyncOptions controls how a directory is synchronised with a lockfile
type SyncOptions struct {
	// Workers is the number of concurrent downloads; values below 1 download sequentially
	Workers int
	// Reporter receives progress events, and may be nil
	Reporter SyncReporter
}

type downloadTask struct {
	name   string
	source ArtifactSource
}

// pinnedFileCache remembers filenames that are known to be pinned for a side. A miss rescans the
// lockfile, filling the cache with every filename seen along the way.
type pinnedFileCache struct {
	lock  *LockFile
	side  Side
	names map[string]struct{}
}

func newPinnedFileCache(lock *LockFile, side Side) *pinnedFileCache {
	return &pinnedFileCache{lock: lock, side: side, names: make(map[string]struct{})}
}

func (c *pinnedFileCache) isPinned(filename string) bool {
	if _, ok := c.names[filename]; ok {
		return true
	}
	for _, name := range c.lock.Names() {
		artifact := c.lock.Mods[name]
		if !c.side.Matches(artifact.ServerSide, artifact.ClientSide) {
			continue
		}
		for _, source := range artifact.Sources {
			c.names[source.Filename] = struct{}{}
			if source.Filename == filename {
				return true
			}
		}
	}
	return false
}

// IsFilePinned reports whether a filename belongs to a pinned artifact on the given side
func (lock *LockFile) IsFilePinned(filename string, side Side) bool {
	return newPinnedFileCache(lock, side).isPinned(filename)
}

// Sync makes targetDir match the lockfile for a side: files that aren't pinned are deleted, and pinned
// files that are missing are downloaded and verified. Files already present are trusted without
// re-hashing. The first hash mismatch aborts the sync; files written before it are kept.
func (lock *LockFile) Sync(targetDir string, side Side, opts SyncOptions) error {
	log := logging.GetLogger("sync")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", targetDir, err)
	}

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return fmt.Errorf("failed to list directory %s: %w", targetDir, err)
	}
	cache := newPinnedFileCache(lock, side)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if cache.isPinned(entry.Name()) {
			continue
		}
		log.Info().Str("file", entry.Name()).Msg("Deleting file as it is not in the pinned mods")
		if err := os.Remove(filepath.Join(targetDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
		}
		if opts.Reporter != nil {
			opts.Reporter.Deleted(entry.Name())
		}
	}

	var tasks []downloadTask
	for _, name := range lock.Names() {
		artifact := lock.Mods[name]
		if !side.Matches(artifact.ServerSide, artifact.ClientSide) {
			continue
		}
		for _, source := range artifact.Sources {
			switch source.Type {
			case SourceLocal:
				return fmt.Errorf("local source %s of mod %s: %w", source.Filename, name, ErrNotImplemented)
			case SourceDownload, "":
			default:
				return fmt.Errorf("unknown source type %s for mod %s", source.Type, name)
			}
			if _, err := os.Stat(filepath.Join(targetDir, source.Filename)); err == nil {
				log.Debug().Str("file", source.Filename).Msg("Found existing mod")
				continue
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			tasks = append(tasks, downloadTask{name: name, source: source})
		}
	}
	if opts.Reporter != nil {
		opts.Reporter.Planned(len(tasks))
	}

	return runDownloads(tasks, targetDir, opts)
}

func runDownloads(tasks []downloadTask, targetDir string, opts SyncOptions) error {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan downloadTask)
	abort := make(chan struct{})
	var once sync.Once
	var firstErr error
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			close(abort)
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				if err := downloadSource(task.source, targetDir); err != nil {
					fail(fmt.Errorf("failed to download %s for mod %s: %w", task.source.Filename, task.name, err))
					continue
				}
				if opts.Reporter != nil {
					opts.Reporter.Downloaded(task.source.Filename)
				}
			}
		}()
	}

feed:
	for _, task := range tasks {
		select {
		case queue <- task:
		case <-abort:
			break feed
		}
	}
	close(queue)
	wg.Wait()
	return firstErr
}

// downloadSource fetches a source into targetDir, only moving it into place once its SHA-512 matches
func downloadSource(source ArtifactSource, targetDir string) error {
	log := logging.GetLogger("sync")
	log.Info().Str("file", source.Filename).Str("url", source.URL).Msg("Downloading")

	resp, err := GetWithUA(source.URL, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tempFile, err := os.CreateTemp(targetDir, ".download-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for download: %w", err)
	}
	defer os.Remove(tempFile.Name())

	hashes, _, err := HashReader(tempFile, resp.Body)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	expected := strings.ToLower(source.SHA512)
	if hashes.SHA512 != expected {
		return &IntegrityError{Filename: source.Filename, Expected: expected, Actual: hashes.SHA512}
	}
	return os.Rename(tempFile.Name(), filepath.Join(targetDir, source.Filename))
}
