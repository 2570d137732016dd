package core

import (
	"github.com/mcmpmgr/mcmpmgr/logging"
)

// UpdateFunc brings the lockfile held by the resolver in line with an updated manifest
type UpdateFunc func(pack Pack, resolver *Resolver) error

// UpdateTransaction applies a mutation to the pack manifest in dir and then updates the lockfile to match.
// The mutated manifest is persisted before the lockfile is touched; if loading, updating or writing the
// lockfile fails, the original manifest is written back and a *RollbackError is returned.
func UpdateTransaction(dir string, mutate func(pack *Pack) error, update UpdateFunc, ignoreTransitiveVersions bool) error {
	return UpdateTransactionWith(dir, NewResolver(nil), mutate, update, ignoreTransitiveVersions)
}

// UpdateTransactionWith is UpdateTransaction using a specific resolver
func UpdateTransactionWith(dir string, resolver *Resolver, mutate func(pack *Pack) error, update UpdateFunc, ignoreTransitiveVersions bool) error {
	log := logging.GetLogger("txn")
	pack, err := LoadPack(dir)
	if err != nil {
		return err
	}
	snapshot := pack.Clone()

	if err := mutate(&pack); err != nil {
		return err
	}
	if err := pack.Write(dir); err != nil {
		return err
	}

	err = updateLock(dir, pack, resolver, update, ignoreTransitiveVersions)
	if err == nil {
		return nil
	}

	log.Error().Err(err).Msg("Failed to update lockfile, reverting modpack manifest")
	if rollbackErr := snapshot.Write(dir); rollbackErr != nil {
		return &RollbackError{Err: err, RollbackErr: rollbackErr}
	}
	return &RollbackError{Err: err}
}

func updateLock(dir string, pack Pack, resolver *Resolver, update UpdateFunc, ignoreTransitiveVersions bool) error {
	lock, err := LoadLockFile(dir, resolver, ignoreTransitiveVersions)
	if err != nil {
		return err
	}
	if err := update(pack, resolver); err != nil {
		return err
	}
	return lock.Write(dir)
}
