package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mcmpmgr/mcmpmgr/logging"
)

// Resolver pins mods into a lockfile using the registered providers
type Resolver struct {
	Lock      *LockFile
	Providers map[ProviderName]ModProvider
}

// NewResolver creates a resolver for a lockfile that uses the globally registered providers
func NewResolver(lock *LockFile) *Resolver {
	return &Resolver{Lock: lock, Providers: Providers}
}

// Pin resolves a single spec with the first provider that succeeds and records it in the lockfile.
// It returns the artifact's dependencies that are not yet pinned.
func (r *Resolver) Pin(spec ModSpec, pack Pack) ([]ModSpec, error) {
	log := logging.GetLogger("resolver")
	if pack.IsForbidden(spec.Name) {
		log.Info().Str("mod", spec.Name).Msg("Skipping adding forbidden mod")
		return nil, nil
	}

	order := pack.ProviderOrder(spec)
	for _, providerName := range order {
		provider, ok := r.Providers[providerName]
		if !ok {
			return nil, fmt.Errorf("%s provider: %w", providerName, ErrNotImplemented)
		}
		artifact, err := provider.Resolve(spec, pack)
		if err != nil {
			if errors.Is(err, ErrNotImplemented) {
				return nil, fmt.Errorf("%s provider: %w", providerName, err)
			}
			log.Warn().Err(err).Str("mod", spec.String()).Str("provider", string(providerName)).
				Msg("Failed to resolve mod with provider")
			continue
		}

		// Inserting before looking at deps is what stops dependency cycles from recursing forever
		r.Lock.Mods[spec.Name] = artifact
		log.Info().Str("mod", spec.Name).Str("version", artifact.Version).Msg("Pinned mod")

		var newDeps []ModSpec
		for _, dep := range artifact.Deps {
			if !r.Lock.IsPinned(dep.Name) {
				newDeps = append(newDeps, dep)
			}
		}
		return newDeps, nil
	}

	return nil, &ResolutionError{Name: spec.Name, Providers: order, Constraint: spec.Version}
}

// PinWithDeps pins a spec and the transitive closure of its dependencies, breadth first.
// When ignoreTransitiveVersions is set, the spec's direct dependencies are relaxed to "*".
func (r *Resolver) PinWithDeps(spec ModSpec, pack Pack, ignoreTransitiveVersions bool) error {
	log := logging.GetLogger("resolver")
	if pinned, ok := r.Lock.Mods[spec.Name]; ok && !spec.IsWildcard() && spec.Version == pinned.Version {
		log.Debug().Str("mod", spec.String()).Msg("Mod already pinned")
		return nil
	}

	deps, err := r.Pin(spec, pack)
	if err != nil {
		return err
	}
	pinnedVersion := r.Lock.Mods[spec.Name].Version

	// Only the direct dependencies are relaxed; deeper levels keep what their parents ask for
	if ignoreTransitiveVersions {
		for i := range deps {
			deps[i] = deps[i].WithVersion(AnyVersion)
		}
	}

	for len(deps) > 0 {
		deps = SortSpecs(deps)

		var next []ModSpec
		for _, dep := range deps {
			log.Info().Str("mod", dep.String()).Str("dependent", spec.Name+"@"+pinnedVersion).
				Msg("Adding dependency")
			newDeps, err := r.Pin(dep, pack)
			if err != nil {
				return err
			}
			next = append(next, newDeps...)
		}
		deps = next
	}
	return nil
}

// Repin replaces whatever is pinned for the spec's name: the old entry is force-removed (pruning the
// dependencies only it needed) and the spec is pinned again with its dependencies
func (r *Resolver) Repin(spec ModSpec, pack Pack, ignoreTransitiveVersions bool) error {
	if r.Lock.IsPinned(spec.Name) {
		if err := r.Remove(spec.Name, pack, true); err != nil {
			return err
		}
	}
	return r.PinWithDeps(spec, pack, ignoreTransitiveVersions)
}

// Init pins every mod in the manifest, in name order
func (r *Resolver) Init(pack Pack, ignoreTransitiveVersions bool) error {
	names := make([]string, 0, len(pack.Mods))
	for name := range pack.Mods {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := r.PinWithDeps(pack.Mods[name], pack, ignoreTransitiveVersions); err != nil {
			return err
		}
	}
	return nil
}

// Remove removes a pinned mod and prunes mods that are no longer needed. Unless force is set, mods
// that other pinned mods depend on cannot be removed.
func (r *Resolver) Remove(name string, pack Pack, force bool) error {
	log := logging.GetLogger("resolver")
	removed, ok := r.Lock.Mods[name]
	if !ok {
		log.Warn().Str("mod", name).Msg("Skipping removing non-existent mod from modpack")
		return nil
	}

	if dependents := r.Lock.Dependents(name); len(dependents) > 0 {
		if !force {
			return &DependentsExistError{Name: name, Dependents: dependents}
		}
		log.Warn().Str("mod", name).Strs("dependents", dependents).
			Msg("Forcefully removing mod even though other mods depend on it")
	}

	delete(r.Lock.Mods, name)
	log.Info().Str("mod", name).Str("version", removed.Version).Msg("Removed mod")
	r.Prune(pack)
	return nil
}

// Prune removes every pinned mod that is neither in the manifest nor depended on by another pinned mod.
// This is a single pass: mods orphaned by the removals it makes are left for the next call.
func (r *Resolver) Prune(pack Pack) {
	log := logging.GetLogger("resolver")
	var orphans []string
	for _, name := range r.Lock.Names() {
		if _, inManifest := pack.Mods[name]; inManifest {
			continue
		}
		if len(r.Lock.Dependents(name)) == 0 {
			orphans = append(orphans, name)
		}
	}
	for _, name := range orphans {
		removed := r.Lock.Mods[name]
		delete(r.Lock.Mods, name)
		log.Info().Str("mod", name).Str("version", removed.Version).Msg("Pruned mod")
	}
}
