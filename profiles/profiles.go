// Package profiles stores named Minecraft instances that modpacks are installed into
package profiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/mcmpmgr/mcmpmgr/logging"
)

const gitPrefix = "git+"

// PackSource is where a profile's modpack comes from: a local pack directory, or a git repository
// written as git+<url>
type PackSource string

// ParsePackSource parses a pack source, resolving local paths to absolute paths that must exist
func ParsePackSource(s string) (PackSource, error) {
	if strings.HasPrefix(s, gitPrefix) {
		if len(s) == len(gitPrefix) {
			return "", errors.New("git pack source is missing a url")
		}
		return PackSource(s), nil
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("invalid pack source: %w", err)
	}
	return PackSource(abs), nil
}

// GitURL returns the repository URL of a git source
func (s PackSource) GitURL() (string, bool) {
	if strings.HasPrefix(string(s), gitPrefix) {
		return strings.TrimPrefix(string(s), gitPrefix), true
	}
	return "", false
}

// Profile is an instance directory that a modpack is installed into for one side
type Profile struct {
	InstanceFolder string     `toml:"instance_folder"`
	PackSource     PackSource `toml:"pack_source"`
	Side           core.Side  `toml:"side"`
}

// NewProfile creates a profile, resolving the instance folder to an absolute path that must exist
func NewProfile(instanceFolder string, source PackSource, side core.Side) (Profile, error) {
	abs, err := filepath.Abs(instanceFolder)
	if err != nil {
		return Profile{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Profile{}, fmt.Errorf("invalid instance folder: %w", err)
	}
	if !info.IsDir() {
		return Profile{}, fmt.Errorf("instance folder %s is not a directory", abs)
	}
	return Profile{InstanceFolder: abs, PackSource: source, Side: side}, nil
}

// Install installs the profile's modpack: the pack's files are applied to the instance folder, then
// the mods folder is synchronised with the lockfile
func (p Profile) Install(opts core.SyncOptions) error {
	log := logging.GetLogger("profiles")
	if url, ok := p.PackSource.GitURL(); ok {
		return fmt.Errorf("installing from git repository %s: %w", url, core.ErrNotImplemented)
	}
	packDir := string(p.PackSource)

	pack, err := core.LoadPack(packDir)
	if err != nil {
		return err
	}
	lock, err := core.LoadLockFile(packDir, core.NewResolver(nil), true)
	if err != nil {
		return err
	}

	log.Info().Str("pack", pack.PackName).Str("instance", p.InstanceFolder).Str("side", string(p.Side)).
		Msg("Installing modpack")
	if err := core.InstallFiles(pack, packDir, p.InstanceFolder, p.Side); err != nil {
		return err
	}
	return lock.Sync(filepath.Join(p.InstanceFolder, "mods"), p.Side, opts)
}

// Data is the user's set of profiles
type Data struct {
	Profiles map[string]Profile `toml:"profiles"`
}

// Load reads the profile store from path, returning an empty store if it doesn't exist
func Load(path string) (*Data, error) {
	data := &Data{Profiles: make(map[string]Profile)}
	if _, err := toml.DecodeFile(path, data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return nil, fmt.Errorf("failed to read profiles from %s: %w", path, err)
	}
	if data.Profiles == nil {
		data.Profiles = make(map[string]Profile)
	}
	return data, nil
}

// LoadDefault reads the profile store from the user's config directory
func LoadDefault() (*Data, string, error) {
	path, err := core.GetProfileStorePath()
	if err != nil {
		return nil, "", err
	}
	data, err := Load(path)
	return data, path, err
}

// Save writes the profile store to path
func (d *Data) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	// Disable indentation
	enc.Indent = ""
	return enc.Encode(d)
}

// Names returns the profile names in sorted order
func (d *Data) Names() []string {
	names := make([]string, 0, len(d.Profiles))
	for name := range d.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add adds or replaces a profile
func (d *Data) Add(name string, profile Profile) {
	d.Profiles[name] = profile
}

func (d *Data) Get(name string) (Profile, bool) {
	p, ok := d.Profiles[name]
	return p, ok
}

func (d *Data) Remove(name string) {
	delete(d.Profiles, name)
}
