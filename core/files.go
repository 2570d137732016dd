package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/mcmpmgr/mcmpmgr/logging"
	"github.com/mcmpmgr/mcmpmgr/merge"
)

// IgnoreFileName is the name of the file in a pack directory that lists paths to leave out of installs
const IgnoreFileName = ".packignore"

var ignoreDefaults = []string{
	PackFileName,
	LockFileName,
	IgnoreFileName,
	".git/",
}

func loadIgnore(packDir string) (*ignore.GitIgnore, error) {
	ignorePath := filepath.Join(packDir, IgnoreFileName)
	if _, err := os.Stat(ignorePath); errors.Is(err, os.ErrNotExist) {
		return ignore.CompileIgnoreLines(ignoreDefaults...), nil
	}
	return ignore.CompileIgnoreFileAndLines(ignorePath, ignoreDefaults...)
}

// InstallFiles applies every file entry of the pack that belongs on the given side to an instance directory
func InstallFiles(pack Pack, packDir string, instanceDir string, side Side) error {
	log := logging.GetLogger("files")
	ignored, err := loadIgnore(packDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	localPaths := make([]string, 0, len(pack.Files))
	for localPath := range pack.Files {
		localPaths = append(localPaths, localPath)
	}
	slices.Sort(localPaths)

	for _, localPath := range localPaths {
		entry := pack.Files[localPath]
		if !side.Includes(entry.Side) {
			log.Debug().Str("file", localPath).Str("side", string(entry.Side)).Msg("Skipping file for other side")
			continue
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("invalid file entry %s: %w", localPath, err)
		}
		src := filepath.Join(packDir, filepath.FromSlash(localPath))
		dst := filepath.Join(instanceDir, filepath.FromSlash(entry.TargetPath))
		if err := applyFile(src, dst, entry.ApplyPolicy, ignored, packDir); err != nil {
			return fmt.Errorf("failed to install %s: %w", localPath, err)
		}
		log.Info().Str("file", localPath).Str("target", entry.TargetPath).Str("policy", string(entry.ApplyPolicy)).
			Msg("Installed file")
	}
	return nil
}

func applyFile(src string, dst string, policy ApplyPolicy, ignored *ignore.GitIgnore, packDir string) error {
	switch policy {
	case ApplyOnce:
		if _, err := os.Stat(dst); err == nil {
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	case ApplyAlways:
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(packDir, p)
		if err != nil {
			return err
		}
		if ignored.MatchesPath(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		relToSrc, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, relToSrc)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		switch policy {
		case ApplyMergeRetain, ApplyMergeOverwrite:
			return mergeFile(p, target, policy == ApplyMergeOverwrite)
		}
		return copyFile(p, target)
	})
}

// mergeFile merges a mergeable source file into target, falling back to overwriting it
func mergeFile(src string, target string, overwrite bool) error {
	ft, err := merge.DetectFileType(src)
	if err != nil {
		return copyFile(src, target)
	}
	existing, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return copyFile(src, target)
	} else if err != nil {
		return err
	}
	srcData, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	merged, err := merge.Files(srcData, existing, overwrite, ft)
	if err != nil {
		return err
	}
	return os.WriteFile(target, merged, 0644)
}

func copyFile(src string, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
