package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// AnyVersion is the version constraint that accepts any version of a mod
const AnyVersion = "*"

// ProviderName identifies a source that mods can be resolved from
type ProviderName string

// The three possible mod providers. Raw resolves mods from a direct download URL.
const (
	CurseForgeProvider ProviderName = "curseforge"
	ModrinthProvider   ProviderName = "modrinth"
	RawProvider        ProviderName = "raw"
)

// ParseProviderName parses a provider name case-insensitively
func ParseProviderName(s string) (ProviderName, error) {
	switch p := ProviderName(strings.ToLower(s)); p {
	case CurseForgeProvider, ModrinthProvider, RawProvider:
		return p, nil
	}
	return "", fmt.Errorf("invalid mod provider: %s", s)
}

// ModSpec is a request for a mod in the pack manifest, or a dependency declared by a pinned mod.
// Two ModSpecs are considered equal when their names and version constraints are equal.
type ModSpec struct {
	Name        string         `toml:"name"`
	Version     string         `toml:"version"`
	Providers   []ProviderName `toml:"providers,omitempty"`
	MCVersion   string         `toml:"mc_version,omitempty"`
	Loader      Loader         `toml:"loader,omitempty"`
	DownloadURL string         `toml:"download_url,omitempty"`
	ServerSide  *bool          `toml:"server_side,omitempty"`
	ClientSide  *bool          `toml:"client_side,omitempty"`
}

// ModKey is the identity of a ModSpec
type ModKey struct {
	Name    string
	Version string
}

// Key returns the identity used for equality and ordering
func (m ModSpec) Key() ModKey {
	return ModKey{m.Name, m.Version}
}

// Equal reports whether two specs have the same name and version constraint
func (m ModSpec) Equal(other ModSpec) bool {
	return m.Key() == other.Key()
}

// Compare orders specs by name, then version constraint
func (m ModSpec) Compare(other ModSpec) int {
	if c := strings.Compare(m.Name, other.Name); c != 0 {
		return c
	}
	return strings.Compare(m.Version, other.Version)
}

func (m ModSpec) String() string {
	return m.Name + "@" + m.Version
}

// IsWildcard reports whether the spec accepts any version
func (m ModSpec) IsWildcard() bool {
	return m.Version == AnyVersion || m.Version == ""
}

// WithVersion returns a copy of the spec with a different version constraint
func (m ModSpec) WithVersion(version string) ModSpec {
	m.Version = version
	return m
}

// WithProvider appends a provider to the spec's fallback list, if it isn't already present
func (m ModSpec) WithProvider(provider ProviderName) ModSpec {
	if !slices.Contains(m.Providers, provider) {
		m.Providers = append(slices.Clone(m.Providers), provider)
	}
	return m
}

// WithSide sets both side flags from a download side
func (m ModSpec) WithSide(side Side) ModSpec {
	server := side == SideBoth || side == SideServer
	client := side == SideBoth || side == SideClient
	m.ServerSide = &server
	m.ClientSide = &client
	return m
}

// SideOr returns the server/client overrides of the spec, using def where an override isn't set
func (m ModSpec) SideOr(def bool) (server bool, client bool) {
	server, client = def, def
	if m.ServerSide != nil {
		server = *m.ServerSide
	}
	if m.ClientSide != nil {
		client = *m.ClientSide
	}
	return
}

var modArgRegex = regexp2.MustCompile(`^(?<name>[^@\s]+)(?:@(?<version>[^@\s]+))?$`, regexp2.None)

// ParseModSpec parses a mod argument in the form name or name@version
func ParseModSpec(arg string) (ModSpec, error) {
	match, err := modArgRegex.FindStringMatch(arg)
	if err != nil {
		return ModSpec{}, err
	}
	if match == nil {
		return ModSpec{}, fmt.Errorf("invalid mod with version constraint: '%s'", arg)
	}
	spec := ModSpec{Name: match.GroupByName("name").String(), Version: AnyVersion}
	if v := match.GroupByName("version").String(); v != "" {
		spec.Version = v
	}
	return spec, nil
}

// SortSpecs sorts and de-duplicates a list of specs by identity. The first occurrence of each identity is kept.
func SortSpecs(specs []ModSpec) []ModSpec {
	if specs == nil {
		return nil
	}
	out := slices.Clone(specs)
	slices.SortStableFunc(out, ModSpec.Compare)
	return slices.CompactFunc(out, ModSpec.Equal)
}

// Loader is a mod loader that a pack, or an individual mod, targets
type Loader string

const (
	LoaderFabric   Loader = "fabric"
	LoaderForge    Loader = "forge"
	LoaderQuilt    Loader = "quilt"
	LoaderNeoForge Loader = "neoforge"
)

var knownLoaders = []Loader{LoaderFabric, LoaderForge, LoaderQuilt, LoaderNeoForge}

// ParseLoader parses a loader name case-insensitively
func ParseLoader(s string) (Loader, error) {
	l := Loader(strings.ToLower(s))
	if !slices.Contains(knownLoaders, l) {
		return "", fmt.Errorf("invalid mod loader: %s", s)
	}
	return l, nil
}

// FriendlyName returns the display name of the loader
func (l Loader) FriendlyName() string {
	switch l {
	case LoaderFabric:
		return "Fabric"
	case LoaderForge:
		return "Forge"
	case LoaderQuilt:
		return "Quilt"
	case LoaderNeoForge:
		return "NeoForge"
	}
	return string(l)
}

// String, Set and Type implement pflag.Value
func (l *Loader) String() string { return string(*l) }

func (l *Loader) Set(s string) error {
	parsed, err := ParseLoader(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l *Loader) Type() string { return "loader" }

// Side is the side a mod or file is required on
type Side string

const (
	SideBoth   Side = "both"
	SideServer Side = "server"
	SideClient Side = "client"
)

var errInvalidSide = errors.New("expected one of: both, server, client")

// ParseSide parses a side case-insensitively
func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToLower(s)); side {
	case SideBoth, SideServer, SideClient:
		return side, nil
	}
	return "", fmt.Errorf("invalid side %s: %w", s, errInvalidSide)
}

// Matches reports whether something required on the given server/client sides should be present on this side
func (s Side) Matches(server bool, client bool) bool {
	switch s {
	case SideServer:
		return server
	case SideClient:
		return client
	}
	return true
}

// Includes reports whether a file declared for the other side belongs on this side
func (s Side) Includes(other Side) bool {
	return s == SideBoth || other == SideBoth || other == "" || s == other
}

func (s *Side) String() string { return string(*s) }

func (s *Side) Set(v string) error {
	parsed, err := ParseSide(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *Side) Type() string { return "side" }
