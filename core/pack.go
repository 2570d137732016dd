package core

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// PackFileName is the name of the manifest file in a pack directory
const PackFileName = "modpack.toml"

// Pack stores the modpack manifest, usually in modpack.toml
type Pack struct {
	PackName         string               `toml:"pack_name"`
	MCVersion        string               `toml:"mc_version"`
	Loader           Loader               `toml:"modloader"`
	Mods             map[string]ModSpec   `toml:"mods"`
	Files            map[string]FileEntry `toml:"files,omitempty"`
	DefaultProviders []ProviderName       `toml:"default_providers"`
	ForbiddenMods    []string             `toml:"forbidden_mods"`
}

// NewPack creates a manifest with the default settings
func NewPack(name string, mcVersion string, loader Loader) Pack {
	return Pack{
		PackName:         name,
		MCVersion:        mcVersion,
		Loader:           loader,
		Mods:             make(map[string]ModSpec),
		DefaultProviders: []ProviderName{ModrinthProvider},
	}
}

// LoadPack loads the pack manifest from a pack directory
func LoadPack(dir string) (Pack, error) {
	packFile := filepath.Join(dir, PackFileName)
	var pack Pack
	if _, err := toml.DecodeFile(packFile, &pack); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Pack{}, fmt.Errorf("directory '%s' does not seem to be a valid modpack project directory: %w", dir, err)
		}
		return Pack{}, fmt.Errorf("failed to read %s: %w", packFile, err)
	}
	if pack.Mods == nil {
		pack.Mods = make(map[string]ModSpec)
	}
	for name, mod := range pack.Mods {
		if mod.Name == "" {
			mod.Name = name
		}
		if mod.Version == "" {
			mod.Version = AnyVersion
		}
		pack.Mods[name] = mod
		if pack.IsForbidden(name) {
			return Pack{}, fmt.Errorf("mod %s is both required and forbidden in %s", name, packFile)
		}
	}
	for localPath, entry := range pack.Files {
		if err := entry.Validate(); err != nil {
			return Pack{}, fmt.Errorf("invalid file entry %s: %w", localPath, err)
		}
	}
	return pack, nil
}

// InitProject writes a new manifest into dir, refusing to overwrite an existing one
func (pack Pack) InitProject(dir string) error {
	packFile := filepath.Join(dir, PackFileName)
	if _, err := os.Stat(packFile); err == nil {
		return fmt.Errorf("%s already exists at %s", PackFileName, packFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return pack.Write(dir)
}

// Write saves the manifest into a pack directory
func (pack Pack) Write(dir string) error {
	f, err := os.Create(filepath.Join(dir, PackFileName))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	// Disable indentation
	enc.Indent = ""
	return enc.Encode(pack)
}

// Clone returns a deep copy of the manifest, used as a rollback snapshot
func (pack Pack) Clone() Pack {
	out := pack
	out.Mods = make(map[string]ModSpec, len(pack.Mods))
	for k, v := range pack.Mods {
		v.Providers = slices.Clone(v.Providers)
		out.Mods[k] = v
	}
	if pack.Files != nil {
		out.Files = make(map[string]FileEntry, len(pack.Files))
		for k, v := range pack.Files {
			out.Files[k] = v
		}
	}
	out.DefaultProviders = slices.Clone(pack.DefaultProviders)
	out.ForbiddenMods = slices.Clone(pack.ForbiddenMods)
	return out
}

// AddProvider appends a default provider, if it isn't already present
func (pack *Pack) AddProvider(provider ProviderName) {
	if !slices.Contains(pack.DefaultProviders, provider) {
		pack.DefaultProviders = append(pack.DefaultProviders, provider)
	}
}

// IsForbidden reports whether a mod name is in the forbidden set
func (pack Pack) IsForbidden(name string) bool {
	return slices.Contains(pack.ForbiddenMods, name)
}

// AddMod adds (or replaces) a mod in the manifest. Forbidden mods cannot be added.
func (pack *Pack) AddMod(spec ModSpec) error {
	if pack.IsForbidden(spec.Name) {
		return fmt.Errorf("cannot add forbidden mod %s to modpack", spec.Name)
	}
	if pack.Mods == nil {
		pack.Mods = make(map[string]ModSpec)
	}
	pack.Mods[spec.Name] = spec
	return nil
}

// RemoveMod removes a mod from the manifest
func (pack *Pack) RemoveMod(name string) {
	delete(pack.Mods, name)
}

// Forbid adds a mod to the forbidden set and removes it from the mods list
func (pack *Pack) Forbid(name string) {
	if !pack.IsForbidden(name) {
		pack.ForbiddenMods = append(pack.ForbiddenMods, name)
		slices.Sort(pack.ForbiddenMods)
	}
	pack.RemoveMod(name)
}

// ProviderOrder returns the providers to try for a spec: its own providers followed by the pack
// defaults, without duplicates
func (pack Pack) ProviderOrder(spec ModSpec) []ProviderName {
	order := make([]ProviderName, 0, len(spec.Providers)+len(pack.DefaultProviders))
	for _, p := range slices.Concat(spec.Providers, pack.DefaultProviders) {
		if !slices.Contains(order, p) {
			order = append(order, p)
		}
	}
	return order
}

// ApplyPolicy selects how a packaged file is applied over an existing target
type ApplyPolicy string

const (
	// ApplyAlways replaces the target on every install
	ApplyAlways ApplyPolicy = "Always"
	// ApplyOnce only applies the file if the target doesn't exist yet
	ApplyOnce ApplyPolicy = "Once"
	// ApplyMergeRetain merges mergeable files, keeping existing values
	ApplyMergeRetain ApplyPolicy = "MergeRetain"
	// ApplyMergeOverwrite merges mergeable files, overwriting existing values
	ApplyMergeOverwrite ApplyPolicy = "MergeOverwrite"
)

var applyPolicies = []ApplyPolicy{ApplyAlways, ApplyOnce, ApplyMergeRetain, ApplyMergeOverwrite}

func ParseApplyPolicy(s string) (ApplyPolicy, error) {
	for _, p := range applyPolicies {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid apply policy %s", s)
}

func (p *ApplyPolicy) String() string { return string(*p) }

func (p *ApplyPolicy) Set(s string) error {
	parsed, err := ParseApplyPolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p *ApplyPolicy) Type() string { return "policy" }

// FileEntry describes a file or folder in the pack directory that is installed into an instance
type FileEntry struct {
	// TargetPath is relative to the instance directory, in forward slash format
	TargetPath  string      `toml:"target_path"`
	Side        Side        `toml:"side"`
	ApplyPolicy ApplyPolicy `toml:"apply_policy"`
}

// Validate checks that the target path stays inside the instance directory
func (f FileEntry) Validate() error {
	if f.TargetPath == "" {
		return errors.New("target path is empty")
	}
	if path.IsAbs(f.TargetPath) || filepath.IsAbs(f.TargetPath) || filepath.VolumeName(f.TargetPath) != "" {
		return fmt.Errorf("absolute paths are not supported: %s", f.TargetPath)
	}
	cleaned := path.Clean(filepath.ToSlash(f.TargetPath))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("target path %s is outside the instance directory", f.TargetPath)
	}
	if _, err := ParseApplyPolicy(string(f.ApplyPolicy)); err != nil {
		return err
	}
	return nil
}

// NormalizeRelativePath converts a path relative to base into the "./a/b" form used as manifest keys
func NormalizeRelativePath(p string, base string) (string, error) {
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("absolute paths are not supported! Will not normalise %s", p)
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, filepath.Join(absBase, p))
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %s is outside of %s", p, base)
	}
	if rel == "." {
		return "./", nil
	}
	return "./" + rel, nil
}

// AddFile adds a pack-relative file or folder to the manifest
func (pack *Pack) AddFile(localPath string, entry FileEntry, packDir string) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	key, err := NormalizeRelativePath(localPath, packDir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(packDir, filepath.FromSlash(key))); err != nil {
		return fmt.Errorf("cannot add %s to the pack: %w", localPath, err)
	}
	if pack.Files == nil {
		pack.Files = make(map[string]FileEntry)
	}
	pack.Files[key] = entry
	return nil
}

// RemoveFile removes a pack-relative file or folder from the manifest
func (pack *Pack) RemoveFile(localPath string, packDir string) error {
	key, err := NormalizeRelativePath(localPath, packDir)
	if err != nil {
		return err
	}
	if _, ok := pack.Files[key]; !ok {
		return fmt.Errorf("%s is not a file in the pack", key)
	}
	delete(pack.Files, key)
	return nil
}

// GetMCVersion returns the MC version to resolve a spec against
func (pack Pack) GetMCVersion(spec ModSpec) string {
	if spec.MCVersion != "" {
		return spec.MCVersion
	}
	return pack.MCVersion
}

// GetLoader returns the loader to resolve a spec against
func (pack Pack) GetLoader(spec ModSpec) Loader {
	if spec.Loader != "" {
		return spec.Loader
	}
	return pack.Loader
}
