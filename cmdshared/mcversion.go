package cmdshared

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/mcmpmgr/mcmpmgr/core"
)

// McVersionManifestURL lists every released Minecraft version
var McVersionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

// MCVersion is one entry of Mojang's version list
type MCVersion struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ReleaseTime time.Time `json:"releaseTime"`
}

// MCVersions is Mojang's version list, newest first
type MCVersions struct {
	LatestRelease  string
	LatestSnapshot string
	Versions       []MCVersion
}

type versionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []MCVersion `json:"versions"`
}

// CheckValid returns an error if the version isn't a known Minecraft version
func (m MCVersions) CheckValid(version string) error {
	if slices.ContainsFunc(m.Versions, func(v MCVersion) bool { return v.ID == version }) {
		return nil
	}
	return fmt.Errorf("%s is not a valid Minecraft version", version)
}

// Latest returns the newest release, or the newest snapshot
func (m MCVersions) Latest(snapshot bool) string {
	if snapshot {
		return m.LatestSnapshot
	}
	return m.LatestRelease
}

// Releases returns the IDs of full releases, newest first
func (m MCVersions) Releases() []string {
	var out []string
	for _, v := range m.Versions {
		if v.Type == "release" {
			out = append(out, v.ID)
		}
	}
	return out
}

// GetValidMCVersions fetches the Minecraft version list from Mojang
func GetValidMCVersions() (MCVersions, error) {
	res, err := core.GetWithUA(McVersionManifestURL, "application/json")
	if err != nil {
		return MCVersions{}, err
	}
	defer res.Body.Close()

	var manifest versionManifest
	if err := json.NewDecoder(res.Body).Decode(&manifest); err != nil {
		return MCVersions{}, fmt.Errorf("failed to parse Minecraft version list: %w", err)
	}
	slices.SortStableFunc(manifest.Versions, func(a, b MCVersion) int {
		return b.ReleaseTime.Compare(a.ReleaseTime)
	})
	return MCVersions{
		LatestRelease:  manifest.Latest.Release,
		LatestSnapshot: manifest.Latest.Snapshot,
		Versions:       manifest.Versions,
	}, nil
}
