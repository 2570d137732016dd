package core

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	mu         sync.Mutex
	deleted    []string
	planned    int
	downloaded []string
}

func (r *recordingReporter) Deleted(filename string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, filename)
}

func (r *recordingReporter) Planned(count int) {
	r.planned = count
}

func (r *recordingReporter) Downloaded(filename string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloaded = append(r.downloaded, filename)
}

func serveFiles(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, ok := files[strings.TrimPrefix(req.URL.Path, "/")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func hashesOf(t *testing.T, content string) Hashes {
	t.Helper()
	hashes, _, err := HashReader(io.Discard, strings.NewReader(content))
	require.NoError(t, err)
	return hashes
}

func pinnedFile(srv *httptest.Server, filename string, hashes Hashes, server bool, client bool) PinnedArtifact {
	return PinnedArtifact{
		Sources:    []ArtifactSource{DownloadSource(srv.URL+"/"+filename, filename, hashes)},
		Version:    "1.0",
		ServerSide: server,
		ClientSide: client,
	}
}

func TestSyncDownloadsAndDeletes(t *testing.T) {
	srv := serveFiles(t, map[string]string{"sodium.jar": "sodium", "lithium.jar": "lithium"})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.jar"), []byte("old"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	lock := NewLockFile()
	lock.Mods["sodium"] = pinnedFile(srv, "sodium.jar", hashesOf(t, "sodium"), true, true)
	lock.Mods["lithium"] = pinnedFile(srv, "lithium.jar", hashesOf(t, "lithium"), true, true)

	reporter := &recordingReporter{}
	require.NoError(t, lock.Sync(dir, SideBoth, SyncOptions{Workers: 2, Reporter: reporter}))

	data, err := os.ReadFile(filepath.Join(dir, "sodium.jar"))
	require.NoError(t, err)
	assert.Equal(t, "sodium", string(data))
	assert.FileExists(t, filepath.Join(dir, "lithium.jar"))
	assert.NoFileExists(t, filepath.Join(dir, "old.jar"))
	assert.DirExists(t, filepath.Join(dir, "subdir"))
	assert.Equal(t, []string{"old.jar"}, reporter.deleted)
	assert.Equal(t, 2, reporter.planned)
	assert.ElementsMatch(t, []string{"sodium.jar", "lithium.jar"}, reporter.downloaded)
}

func TestSyncSideFilter(t *testing.T) {
	srv := serveFiles(t, map[string]string{"server.jar": "s", "client.jar": "c"})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.jar"), []byte("c"), 0644))

	lock := NewLockFile()
	lock.Mods["server-only"] = pinnedFile(srv, "server.jar", hashesOf(t, "s"), true, false)
	lock.Mods["client-only"] = pinnedFile(srv, "client.jar", hashesOf(t, "c"), false, true)

	require.NoError(t, lock.Sync(dir, SideServer, SyncOptions{}))
	assert.FileExists(t, filepath.Join(dir, "server.jar"))
	assert.NoFileExists(t, filepath.Join(dir, "client.jar"))
}

func TestSyncTrustsExistingFiles(t *testing.T) {
	srv := serveFiles(t, map[string]string{})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sodium.jar"), []byte("tampered"), 0644))

	lock := NewLockFile()
	lock.Mods["sodium"] = pinnedFile(srv, "sodium.jar", hashesOf(t, "sodium"), true, true)

	require.NoError(t, lock.Sync(dir, SideBoth, SyncOptions{}))
	data, err := os.ReadFile(filepath.Join(dir, "sodium.jar"))
	require.NoError(t, err)
	assert.Equal(t, "tampered", string(data))
}

func TestSyncIntegrityMismatch(t *testing.T) {
	srv := serveFiles(t, map[string]string{"sodium.jar": "not sodium"})
	dir := t.TempDir()

	expected := hashesOf(t, "sodium")
	expected.SHA512 = strings.ToUpper(expected.SHA512)
	lock := NewLockFile()
	lock.Mods["sodium"] = pinnedFile(srv, "sodium.jar", expected, true, true)

	err := lock.Sync(dir, SideBoth, SyncOptions{})
	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "sodium.jar", integrityErr.Filename)
	assert.Equal(t, hashesOf(t, "sodium").SHA512, integrityErr.Expected)
	assert.Equal(t, hashesOf(t, "not sodium").SHA512, integrityErr.Actual)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncHashIsCaseInsensitive(t *testing.T) {
	srv := serveFiles(t, map[string]string{"sodium.jar": "sodium"})
	dir := t.TempDir()

	hashes := hashesOf(t, "sodium")
	hashes.SHA512 = strings.ToUpper(hashes.SHA512)
	lock := NewLockFile()
	lock.Mods["sodium"] = pinnedFile(srv, "sodium.jar", hashes, true, true)

	require.NoError(t, lock.Sync(dir, SideBoth, SyncOptions{}))
	assert.FileExists(t, filepath.Join(dir, "sodium.jar"))
}

func TestSyncLocalSourceNotImplemented(t *testing.T) {
	lock := NewLockFile()
	lock.Mods["local"] = PinnedArtifact{
		Sources:    []ArtifactSource{{Type: SourceLocal, Path: "/tmp/mod.jar", Filename: "mod.jar"}},
		Version:    "1.0",
		ServerSide: true,
		ClientSide: true,
	}
	err := lock.Sync(t.TempDir(), SideBoth, SyncOptions{})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestIsFilePinned(t *testing.T) {
	lock := NewLockFile()
	lock.Mods["a"] = PinnedArtifact{Sources: []ArtifactSource{{Filename: "a.jar"}}, ServerSide: true}
	lock.Mods["b"] = PinnedArtifact{Sources: []ArtifactSource{{Filename: "b.jar"}}, ClientSide: true}

	assert.True(t, lock.IsFilePinned("a.jar", SideServer))
	assert.False(t, lock.IsFilePinned("b.jar", SideServer))
	assert.True(t, lock.IsFilePinned("b.jar", SideBoth))
	assert.False(t, lock.IsFilePinned("c.jar", SideBoth))
}

func TestHashReader(t *testing.T) {
	var buf bytes.Buffer
	hashes, n, err := HashReader(&buf, strings.NewReader("abc"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, "abc", buf.String())
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hashes.SHA1)
	assert.True(t, strings.HasPrefix(hashes.SHA512, "ddaf35a193617aba"))
}
