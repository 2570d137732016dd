package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPack(t *testing.T, pack Pack) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, pack.Write(dir))
	return dir
}

func TestUpdateTransactionCommits(t *testing.T) {
	catalog := &fakeCatalog{artifacts: map[string]PinnedArtifact{
		"a": artifact("1.0", dep("b", AnyVersion)),
		"b": artifact("2.0"),
	}}
	resolver := newTestResolver(map[ProviderName]ModProvider{ModrinthProvider: catalog})
	dir := writeTestPack(t, testPack())

	spec := dep("a", AnyVersion)
	err := UpdateTransactionWith(dir, resolver, func(pack *Pack) error {
		return pack.AddMod(spec)
	}, func(pack Pack, r *Resolver) error {
		return r.PinWithDeps(spec, pack, false)
	}, false)
	require.NoError(t, err)

	pack, err := LoadPack(dir)
	require.NoError(t, err)
	assert.Contains(t, pack.Mods, "a")

	lock, err := ReadLockFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lock.Names())
	assert.Equal(t, "2.0", lock.Mods["b"].Version)
}

func TestUpdateTransactionRollsBack(t *testing.T) {
	resolver := newTestResolver(map[ProviderName]ModProvider{
		ModrinthProvider: &fakeCatalog{artifacts: map[string]PinnedArtifact{}},
	})
	original := testPack(dep("existing", AnyVersion))
	dir := writeTestPack(t, original)
	lock := NewLockFile()
	lock.Mods["existing"] = artifact("1.0")
	require.NoError(t, lock.Write(dir))

	spec := dep("missing", AnyVersion)
	err := UpdateTransactionWith(dir, resolver, func(pack *Pack) error {
		return pack.AddMod(spec)
	}, func(pack Pack, r *Resolver) error {
		return r.PinWithDeps(spec, pack, false)
	}, false)

	var rollbackErr *RollbackError
	require.ErrorAs(t, err, &rollbackErr)
	assert.NoError(t, rollbackErr.RollbackErr)
	var resErr *ResolutionError
	assert.ErrorAs(t, err, &resErr)

	pack, err := LoadPack(dir)
	require.NoError(t, err)
	assert.NotContains(t, pack.Mods, "missing")
	assert.Contains(t, pack.Mods, "existing")

	onDisk, err := ReadLockFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"existing"}, onDisk.Names())
}

func TestUpdateTransactionMutationErrorLeavesManifest(t *testing.T) {
	dir := writeTestPack(t, testPack())
	before, err := os.ReadFile(filepath.Join(dir, PackFileName))
	require.NoError(t, err)

	mutateErr := errors.New("bad mutation")
	err = UpdateTransactionWith(dir, newTestResolver(nil), func(pack *Pack) error {
		pack.Forbid("a")
		return mutateErr
	}, func(Pack, *Resolver) error {
		t.Fatal("update must not run")
		return nil
	}, false)
	assert.ErrorIs(t, err, mutateErr)

	after, err := os.ReadFile(filepath.Join(dir, PackFileName))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadLockFileDerivesMissingLock(t *testing.T) {
	catalog := &fakeCatalog{artifacts: map[string]PinnedArtifact{
		"a": artifact("1.0", dep("b", AnyVersion)),
		"b": artifact("2.0"),
	}}
	resolver := newTestResolver(map[ProviderName]ModProvider{ModrinthProvider: catalog})
	dir := writeTestPack(t, testPack(dep("a", AnyVersion)))

	lock, err := LoadLockFile(dir, resolver, false)
	require.NoError(t, err)
	assert.Same(t, lock, resolver.Lock)
	assert.Equal(t, []string{"a", "b"}, lock.Names())
}

func TestLockFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lock := NewLockFile()
	a := artifact("1.0", dep("b", "2.0"))
	origin, err := EncodeOrigin(ModrinthProvider, struct {
		ProjectID string `mapstructure:"project-id"`
	}{"AANobbMI"})
	require.NoError(t, err)
	a.Origin = origin
	lock.Mods["a"] = a
	require.NoError(t, lock.Write(dir))

	read, err := ReadLockFile(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.0", read.Mods["a"].Version)
	assert.Equal(t, []string{"a"}, read.Dependents("b"))

	var decoded struct {
		ProjectID string `mapstructure:"project-id"`
	}
	ok, err := read.Mods["a"].DecodeOrigin(ModrinthProvider, &decoded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AANobbMI", decoded.ProjectID)
}

func TestReadLockFileMissing(t *testing.T) {
	_, err := ReadLockFile(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUpdateTransactionRepinReplacesStalePin(t *testing.T) {
	catalog := &fakeCatalog{artifacts: map[string]PinnedArtifact{
		"a": artifact("1.0", dep("b", AnyVersion)),
		"b": artifact("2.0"),
	}}
	sided := ModProviderFunc(func(spec ModSpec, pack Pack) (PinnedArtifact, error) {
		pinned, err := catalog.Resolve(spec, pack)
		if err != nil {
			return PinnedArtifact{}, err
		}
		pinned.ServerSide, pinned.ClientSide = spec.SideOr(true)
		return pinned, nil
	})
	resolver := newTestResolver(map[ProviderName]ModProvider{ModrinthProvider: sided})
	dir := writeTestPack(t, testPack())

	add := func(spec ModSpec) error {
		return UpdateTransactionWith(dir, resolver, func(pack *Pack) error {
			return pack.AddMod(spec)
		}, func(pack Pack, r *Resolver) error {
			return r.Repin(spec, pack, false)
		}, false)
	}

	require.NoError(t, add(dep("a", AnyVersion)))
	lock, err := ReadLockFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lock.Names())

	// The new version of a no longer needs b
	catalog.artifacts["a"] = artifact("3.0")
	require.NoError(t, add(dep("a", "3.0")))
	lock, err = ReadLockFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, lock.Names())
	assert.Equal(t, "3.0", lock.Mods["a"].Version)
	assert.True(t, lock.Mods["a"].ClientSide)

	// Same exact version, different side
	serverOnly := dep("a", "3.0").WithSide(SideServer)
	require.NoError(t, add(serverOnly))
	lock, err = ReadLockFile(dir)
	require.NoError(t, err)
	assert.True(t, lock.Mods["a"].ServerSide)
	assert.False(t, lock.Mods["a"].ClientSide)
}
