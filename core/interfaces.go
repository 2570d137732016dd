package core

// Providers stores all the mod providers that can be used to pin mods. Provider packages register
// themselves in this map when they are imported.
var Providers = make(map[ProviderName]ModProvider)

// ModProvider resolves a mod spec into a concrete artifact. The artifact's Deps are the mod's own
// required dependencies, not yet resolved.
type ModProvider interface {
	Resolve(spec ModSpec, pack Pack) (PinnedArtifact, error)
}

// ModProviderFunc adapts a function to the ModProvider interface
type ModProviderFunc func(spec ModSpec, pack Pack) (PinnedArtifact, error)

func (f ModProviderFunc) Resolve(spec ModSpec, pack Pack) (PinnedArtifact, error) {
	return f(spec, pack)
}

// SyncReporter receives progress events while a directory is synchronised with a lockfile
type SyncReporter interface {
	// Deleted is called for each file removed because it isn't pinned
	Deleted(filename string)
	// Planned is called once with the number of files that need downloading
	Planned(count int)
	// Downloaded is called when a file has been verified and written
	Downloaded(filename string)
}
