package modrinth

import (
	"errors"
	"testing"
	"time"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	versions    map[string][]*modrinthApi.Version
	versionByID map[string]*modrinthApi.Version
	projects    map[string]*modrinthApi.Project
	listOptions []modrinthApi.ListVersionsOptions
}

func (f *fakeAPI) ListVersions(projectID string, options modrinthApi.ListVersionsOptions) ([]*modrinthApi.Version, error) {
	f.listOptions = append(f.listOptions, options)
	return f.versions[projectID], nil
}

func (f *fakeAPI) GetVersion(versionID string) (*modrinthApi.Version, error) {
	v, ok := f.versionByID[versionID]
	if !ok {
		return nil, errors.New("version not found")
	}
	return v, nil
}

func (f *fakeAPI) GetProject(projectID string) (*modrinthApi.Project, error) {
	p, ok := f.projects[projectID]
	if !ok {
		return nil, errors.New("project not found")
	}
	return p, nil
}

func ptr[T any](v T) *T {
	return &v
}

func version(projectID string, id string, number string, published time.Time, deps ...*modrinthApi.Dependency) *modrinthApi.Version {
	return &modrinthApi.Version{
		ID:            ptr(id),
		ProjectID:     ptr(projectID),
		VersionNumber: ptr(number),
		DatePublished: ptr(published),
		Dependencies:  deps,
		Files: []*modrinthApi.File{
			{
				Hashes:   map[string]string{"sha1": "sources-sha1", "sha512": "sources-sha512"},
				URL:      ptr("https://cdn.modrinth.com/" + id + "-sources.jar"),
				Filename: ptr(projectID + "-" + number + "-sources.jar"),
				Primary:  ptr(false),
			},
			{
				Hashes:   map[string]string{"sha1": id + "-sha1", "sha512": id + "-sha512"},
				URL:      ptr("https://cdn.modrinth.com/" + id + ".jar"),
				Filename: ptr(projectID + "-" + number + ".jar"),
				Primary:  ptr(true),
			},
		},
	}
}

func project(id string, slug string, server string, client string) *modrinthApi.Project {
	return &modrinthApi.Project{
		ID:          ptr(id),
		Slug:        ptr(slug),
		ServerSide:  ptr(server),
		ClientSide:  ptr(client),
		ProjectType: ptr("mod"),
	}
}

var (
	day1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 = day1.Add(24 * time.Hour)
)

func sodiumAPI() *fakeAPI {
	return &fakeAPI{
		versions: map[string][]*modrinthApi.Version{
			"sodium": {
				version("AANobbMI", "v050", "0.5.0", day1),
				version("AANobbMI", "v058", "0.5.8", day2),
			},
		},
		projects: map[string]*modrinthApi.Project{
			"AANobbMI": project("AANobbMI", "sodium", "unsupported", "required"),
		},
	}
}

func TestResolveNewest(t *testing.T) {
	api := sodiumAPI()
	pack := core.NewPack("test", "1.20.1", core.LoaderFabric)

	artifact, err := NewProvider(api).Resolve(core.ModSpec{Name: "sodium", Version: core.AnyVersion}, pack)
	require.NoError(t, err)
	assert.Equal(t, "0.5.8", artifact.Version)
	require.Len(t, artifact.Sources, 1)
	assert.Equal(t, "AANobbMI-0.5.8.jar", artifact.Sources[0].Filename)
	assert.Equal(t, "v058-sha512", artifact.Sources[0].SHA512)
	assert.Equal(t, "v058-sha1", artifact.Sources[0].SHA1)
	assert.Equal(t, core.SourceDownload, artifact.Sources[0].Type)
	assert.False(t, artifact.ServerSide)
	assert.True(t, artifact.ClientSide)
	assert.Empty(t, artifact.Deps)

	require.Len(t, api.listOptions, 1)
	assert.Equal(t, []string{"1.20.1"}, api.listOptions[0].GameVersions)
	assert.Equal(t, []string{"fabric"}, api.listOptions[0].Loaders)

	var origin mrOriginData
	ok, err := artifact.DecodeOrigin(core.ModrinthProvider, &origin)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mrOriginData{ProjectID: "AANobbMI", VersionID: "v058"}, origin)
}

func TestResolveIsDeterministic(t *testing.T) {
	api := sodiumAPI()
	pack := core.NewPack("test", "1.20.1", core.LoaderFabric)
	provider := NewProvider(api)
	spec := core.ModSpec{Name: "sodium", Version: core.AnyVersion}

	first, err := provider.Resolve(spec, pack)
	require.NoError(t, err)
	second, err := provider.Resolve(spec, pack)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, second.Origin)

	// Pinning through the resolver into separate lockfiles gives the same entries
	locks := make([]*core.LockFile, 2)
	for i := range locks {
		resolver := &core.Resolver{Lock: core.NewLockFile(), Providers: map[core.ProviderName]core.ModProvider{
			core.ModrinthProvider: provider,
		}}
		require.NoError(t, resolver.PinWithDeps(spec, pack, false))
		locks[i] = resolver.Lock
	}
	assert.Equal(t, locks[0].Mods, locks[1].Mods)
}

func TestResolveExactVersion(t *testing.T) {
	artifact, err := NewProvider(sodiumAPI()).Resolve(core.ModSpec{Name: "sodium", Version: "0.5.0"},
		core.NewPack("test", "1.20.1", core.LoaderFabric))
	require.NoError(t, err)
	assert.Equal(t, "0.5.0", artifact.Version)
}

func TestResolveMissingVersion(t *testing.T) {
	_, err := NewProvider(sodiumAPI()).Resolve(core.ModSpec{Name: "sodium", Version: "0.6.0"},
		core.NewPack("test", "1.20.1", core.LoaderFabric))
	assert.Error(t, err)
}

func TestResolveSpecOverrides(t *testing.T) {
	api := sodiumAPI()
	server, client := true, false
	spec := core.ModSpec{
		Name:       "sodium",
		Version:    core.AnyVersion,
		MCVersion:  "1.19.2",
		Loader:     core.LoaderQuilt,
		ServerSide: &server,
		ClientSide: &client,
	}
	artifact, err := NewProvider(api).Resolve(spec, core.NewPack("test", "1.20.1", core.LoaderFabric))
	require.NoError(t, err)
	assert.True(t, artifact.ServerSide)
	assert.False(t, artifact.ClientSide)
	assert.Equal(t, []string{"1.19.2"}, api.listOptions[0].GameVersions)
	assert.Equal(t, []string{"quilt"}, api.listOptions[0].Loaders)
}

func TestResolveDependencies(t *testing.T) {
	fabricAPIVersion := version("P7dR8mSH", "fapi1", "0.92.0", day1)
	api := &fakeAPI{
		versions: map[string][]*modrinthApi.Version{
			"lithium": {
				version("gvQqBUqZ", "lith1", "0.11.2", day1,
					&modrinthApi.Dependency{VersionID: ptr("fapi1"), DependencyType: ptr("required")},
					&modrinthApi.Dependency{ProjectID: ptr("mOgUt4GM"), DependencyType: ptr("required")},
					&modrinthApi.Dependency{ProjectID: ptr("AANobbMI"), DependencyType: ptr("optional")},
				),
			},
		},
		versionByID: map[string]*modrinthApi.Version{"fapi1": fabricAPIVersion},
		projects: map[string]*modrinthApi.Project{
			"gvQqBUqZ": project("gvQqBUqZ", "lithium", "optional", "optional"),
			"P7dR8mSH": project("P7dR8mSH", "fabric-api", "required", "required"),
			"mOgUt4GM": project("mOgUt4GM", "modmenu", "unsupported", "optional"),
		},
	}

	artifact, err := NewProvider(api).Resolve(core.ModSpec{Name: "lithium", Version: core.AnyVersion},
		core.NewPack("test", "1.20.1", core.LoaderFabric))
	require.NoError(t, err)
	assert.True(t, artifact.ServerSide)
	require.Len(t, artifact.Deps, 2)

	assert.Equal(t, "fabric-api", artifact.Deps[0].Name)
	assert.Equal(t, "0.92.0", artifact.Deps[0].Version)
	assert.Equal(t, []core.ProviderName{core.ModrinthProvider}, artifact.Deps[0].Providers)

	assert.Equal(t, "modmenu", artifact.Deps[1].Name)
	assert.Equal(t, core.AnyVersion, artifact.Deps[1].Version)
	require.NotNil(t, artifact.Deps[1].ServerSide)
	assert.False(t, *artifact.Deps[1].ServerSide)
	assert.True(t, *artifact.Deps[1].ClientSide)
}

func TestFindLatestVersionTiebreak(t *testing.T) {
	older := version("p", "a", "1.0.0", day1)
	newer := version("p", "b", "1.0.0", day2)
	assert.Same(t, newer, findLatestVersion([]*modrinthApi.Version{older, newer}))
	assert.Same(t, newer, findLatestVersion([]*modrinthApi.Version{newer, older}))
}

func TestProjectURL(t *testing.T) {
	u, err := projectURL(project("AANobbMI", "sodium", "unsupported", "required"))
	require.NoError(t, err)
	assert.Equal(t, "https://modrinth.com/mod/sodium", u)
}
