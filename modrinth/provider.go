package modrinth

import (
	"errors"
	"fmt"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/mcmpmgr/mcmpmgr/core"
)

type mrOriginData struct {
	ProjectID string `mapstructure:"project-id"`
	VersionID string `mapstructure:"version-id"`
}

// Provider resolves mods against the Modrinth catalog. Mod names are Modrinth project slugs or IDs.
type Provider struct {
	api catalogAPI
}

// NewProvider creates a provider using the given Modrinth API
func NewProvider(api catalogAPI) *Provider {
	return &Provider{api: api}
}

// Resolve picks the version of a project matching the spec's constraint (or the newest version for "*")
// that supports the pack's loader and Minecraft version, and pins its primary file
func (p *Provider) Resolve(spec core.ModSpec, pack core.Pack) (core.PinnedArtifact, error) {
	loader := pack.GetLoader(spec)
	mcVersion := pack.GetMCVersion(spec)

	versions, err := p.api.ListVersions(spec.Name, modrinthApi.ListVersionsOptions{
		GameVersions: []string{mcVersion},
		Loaders:      []string{string(loader)},
	})
	if err != nil {
		return core.PinnedArtifact{}, fmt.Errorf("failed to fetch versions of %s: %w", spec.Name, err)
	}

	var candidates []*modrinthApi.Version
	for _, v := range versions {
		if v.VersionNumber == nil {
			continue
		}
		if spec.IsWildcard() || core.VersionMatches(spec.Version, *v.VersionNumber) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return core.PinnedArtifact{}, fmt.Errorf("cannot find package %s for loader=%s and mc version=%s",
			spec, loader, mcVersion)
	}
	version := findLatestVersion(candidates)

	file, err := primaryFile(version)
	if err != nil {
		return core.PinnedArtifact{}, fmt.Errorf("%s@%s: %w", spec.Name, *version.VersionNumber, err)
	}
	hashes := core.Hashes{SHA1: file.Hashes["sha1"], SHA512: file.Hashes["sha512"]}
	if hashes.SHA512 == "" {
		return core.PinnedArtifact{}, fmt.Errorf("file %s of %s doesn't have a sha512 hash", deref(file.Filename), spec.Name)
	}

	serverSide, clientSide, err := p.sides(spec, version)
	if err != nil {
		return core.PinnedArtifact{}, err
	}

	deps, err := p.requiredDeps(version)
	if err != nil {
		return core.PinnedArtifact{}, err
	}

	origin, err := core.EncodeOrigin(core.ModrinthProvider, mrOriginData{
		ProjectID: deref(version.ProjectID),
		VersionID: deref(version.ID),
	})
	if err != nil {
		return core.PinnedArtifact{}, err
	}

	return core.PinnedArtifact{
		Sources:    []core.ArtifactSource{core.DownloadSource(deref(file.URL), deref(file.Filename), hashes)},
		Version:    *version.VersionNumber,
		Deps:       deps,
		ServerSide: serverSide,
		ClientSide: clientSide,
		Origin:     origin,
	}, nil
}

// sides uses the spec's overrides, looking up the project's support flags for whatever isn't overridden
func (p *Provider) sides(spec core.ModSpec, version *modrinthApi.Version) (bool, bool, error) {
	if spec.ServerSide != nil && spec.ClientSide != nil {
		return *spec.ServerSide, *spec.ClientSide, nil
	}
	projectID := spec.Name
	if version.ProjectID != nil {
		projectID = *version.ProjectID
	}
	project, err := p.api.GetProject(projectID)
	if err != nil {
		return false, false, fmt.Errorf("failed to fetch project %s: %w", projectID, err)
	}
	server, client := projectSides(project)
	if spec.ServerSide != nil {
		server = *spec.ServerSide
	}
	if spec.ClientSide != nil {
		client = *spec.ClientSide
	}
	return server, client, nil
}

// requiredDeps converts the version's required dependencies into specs, looking up each project's slug.
// Dependencies pinned to a version ID keep that version; others accept any version.
func (p *Provider) requiredDeps(version *modrinthApi.Version) ([]core.ModSpec, error) {
	var deps []core.ModSpec
	for _, dep := range version.Dependencies {
		if dep.DependencyType == nil || *dep.DependencyType != "required" {
			continue
		}

		depVersion := core.AnyVersion
		projectID := deref(dep.ProjectID)
		if dep.VersionID != nil {
			v, err := p.api.GetVersion(*dep.VersionID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch dependency version %s: %w", *dep.VersionID, err)
			}
			if v.VersionNumber != nil {
				depVersion = *v.VersionNumber
			}
			if v.ProjectID != nil {
				projectID = *v.ProjectID
			}
		}
		if projectID == "" {
			return nil, errors.New("dependency doesn't have a project ID")
		}

		project, err := p.api.GetProject(projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dependency project %s: %w", projectID, err)
		}
		name := deref(project.Slug)
		if name == "" {
			name = projectID
		}
		server, client := projectSides(project)
		deps = append(deps, core.ModSpec{
			Name:       name,
			Version:    depVersion,
			Providers:  []core.ProviderName{core.ModrinthProvider},
			ServerSide: &server,
			ClientSide: &client,
		})
	}
	return core.SortSpecs(deps), nil
}

func projectSides(project *modrinthApi.Project) (server bool, client bool) {
	return shouldDownloadOnSide(project.ServerSide), shouldDownloadOnSide(project.ClientSide)
}

func shouldDownloadOnSide(side *string) bool {
	return side == nil || *side != "unsupported"
}

// primaryFile returns the version's primary file, or its first file if none is marked primary
func primaryFile(version *modrinthApi.Version) (*modrinthApi.File, error) {
	if len(version.Files) == 0 {
		return nil, errors.New("version doesn't have any files attached")
	}
	file := version.Files[0]
	for _, f := range version.Files {
		if f.Primary != nil && *f.Primary {
			file = f
			break
		}
	}
	if file.URL == nil || file.Filename == nil {
		return nil, errors.New("file doesn't have a download URL")
	}
	return file, nil
}

// findLatestVersion orders versions by version number using FlexVer, falling back to the publish date
func findLatestVersion(versions []*modrinthApi.Version) *modrinthApi.Version {
	latestValidVersion := versions[0]
	for _, v := range versions[1:] {
		compare := core.CompareVersions(*v.VersionNumber, *latestValidVersion.VersionNumber)
		if compare == 0 && v.DatePublished != nil && latestValidVersion.DatePublished != nil {
			// Other comparisons are equal, compare date instead
			if v.DatePublished.After(*latestValidVersion.DatePublished) {
				compare = 1
			}
		}
		if compare > 0 {
			latestValidVersion = v
		}
	}
	return latestValidVersion
}
