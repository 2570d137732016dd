package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/maps"
)

// LockFileName is the name of the lockfile in a pack directory
const LockFileName = "modpack.lock"

// SourceType discriminates the variants of ArtifactSource
type SourceType string

const (
	SourceDownload SourceType = "download"
	SourceLocal    SourceType = "local"
)

// ArtifactSource is a file that makes up a pinned artifact. Download sources are fetched from URL;
// Local sources refer to Path on disk.
type ArtifactSource struct {
	Type     SourceType `toml:"type"`
	URL      string     `toml:"url,omitempty"`
	Path     string     `toml:"path,omitempty"`
	SHA1     string     `toml:"sha1"`
	SHA512   string     `toml:"sha512"`
	Filename string     `toml:"filename"`
}

// DownloadSource creates a download source
func DownloadSource(url string, filename string, hashes Hashes) ArtifactSource {
	return ArtifactSource{
		Type:     SourceDownload,
		URL:      url,
		SHA1:     hashes.SHA1,
		SHA512:   hashes.SHA512,
		Filename: filename,
	}
}

// PinnedArtifact is a resolved mod in the lockfile. Entries are replaced rather than mutated.
type PinnedArtifact struct {
	Sources []ArtifactSource `toml:"source"`
	// Version is the concrete resolved version, never "*"
	Version string `toml:"version"`
	// Deps are the artifact's own required dependencies, before resolution
	Deps       []ModSpec `toml:"deps,omitempty"`
	ServerSide bool      `toml:"server_side"`
	ClientSide bool      `toml:"client_side"`
	// Origin holds provider specific data about where the artifact came from, keyed by provider
	Origin map[string]map[string]interface{} `toml:"origin,omitempty"`
}

// DependsOn reports whether the artifact declares a dependency on the named mod
func (a PinnedArtifact) DependsOn(name string) bool {
	return slices.ContainsFunc(a.Deps, func(d ModSpec) bool {
		return d.Name == name
	})
}

// DecodeOrigin decodes the origin data recorded by a provider into out
func (a PinnedArtifact) DecodeOrigin(provider ProviderName, out interface{}) (bool, error) {
	data, ok := a.Origin[string(provider)]
	if !ok {
		return false, nil
	}
	return true, mapstructure.Decode(data, out)
}

// EncodeOrigin returns the origin map for provider specific data
func EncodeOrigin(provider ProviderName, data interface{}) (map[string]map[string]interface{}, error) {
	m := make(map[string]interface{})
	if err := mapstructure.Decode(data, &m); err != nil {
		return nil, err
	}
	return map[string]map[string]interface{}{string(provider): m}, nil
}

// LockFile is the set of pinned artifacts satisfying a manifest, keyed by mod name
type LockFile struct {
	Mods map[string]PinnedArtifact `toml:"mods"`
}

// NewLockFile creates an empty lockfile
func NewLockFile() *LockFile {
	return &LockFile{Mods: make(map[string]PinnedArtifact)}
}

// ReadLockFile reads the lockfile from a pack directory. The error wraps os.ErrNotExist if there is none.
func ReadLockFile(dir string) (*LockFile, error) {
	lock := NewLockFile()
	if _, err := toml.DecodeFile(filepath.Join(dir, LockFileName), lock); err != nil {
		return nil, err
	}
	if lock.Mods == nil {
		lock.Mods = make(map[string]PinnedArtifact)
	}
	return lock, nil
}

// LoadLockFile reads the lockfile from a pack directory. If it doesn't exist, it is derived from the
// pack manifest by pinning every mod with its dependencies.
func LoadLockFile(dir string, resolver *Resolver, ignoreTransitiveVersions bool) (*LockFile, error) {
	lock, err := ReadLockFile(dir)
	if err == nil {
		resolver.Lock = lock
		return lock, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", LockFileName, err)
	}
	pack, err := LoadPack(dir)
	if err != nil {
		return nil, err
	}
	resolver.Lock = NewLockFile()
	if err := resolver.Init(pack, ignoreTransitiveVersions); err != nil {
		return nil, err
	}
	return resolver.Lock, nil
}

// Write saves the lockfile into a pack directory
func (lock *LockFile) Write(dir string) error {
	f, err := os.Create(filepath.Join(dir, LockFileName))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	// Disable indentation
	enc.Indent = ""
	return enc.Encode(lock)
}

// IsPinned reports whether a mod is in the lockfile
func (lock *LockFile) IsPinned(name string) bool {
	_, ok := lock.Mods[name]
	return ok
}

// Names returns the pinned mod names in sorted order
func (lock *LockFile) Names() []string {
	names := maps.Keys(lock.Mods)
	slices.Sort(names)
	return names
}

// Dependents returns the sorted names of pinned mods that declare a dependency on name
func (lock *LockFile) Dependents(name string) []string {
	var dependents []string
	for pinnedName, artifact := range lock.Mods {
		if artifact.DependsOn(name) {
			dependents = append(dependents, pinnedName)
		}
	}
	slices.Sort(dependents)
	return dependents
}
