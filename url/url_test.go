package url

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/files/custom-mod-1.0.jar" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "custom mod")
	}))
	defer srv.Close()

	expected, _, err := core.HashReader(io.Discard, strings.NewReader("custom mod"))
	require.NoError(t, err)

	clientOnly := false
	spec := core.ModSpec{
		Name:        "custom-mod",
		Version:     core.AnyVersion,
		DownloadURL: srv.URL + "/files/custom-mod-1.0.jar?token=abc",
		ServerSide:  &clientOnly,
	}
	artifact, err := Provider{}.Resolve(spec, core.Pack{})
	require.NoError(t, err)

	assert.Equal(t, core.UserAgent, userAgent)
	assert.Equal(t, UnknownVersion, artifact.Version)
	assert.Empty(t, artifact.Deps)
	assert.False(t, artifact.ServerSide)
	assert.True(t, artifact.ClientSide)
	require.Len(t, artifact.Sources, 1)
	assert.Equal(t, "custom-mod-1.0.jar", artifact.Sources[0].Filename)
	assert.Equal(t, expected.SHA512, artifact.Sources[0].SHA512)
	assert.Equal(t, expected.SHA1, artifact.Sources[0].SHA1)

	spec.DownloadURL = srv.URL + "/missing.jar"
	_, err = Provider{}.Resolve(spec, core.Pack{})
	assert.Error(t, err)

	spec.DownloadURL = ""
	_, err = Provider{}.Resolve(spec, core.Pack{})
	assert.Error(t, err)
}

func TestSupportedProvider(t *testing.T) {
	assert.Equal(t, core.ModrinthProvider, supportedProvider("https://modrinth.com/mod/sodium"))
	assert.Equal(t, core.CurseForgeProvider, supportedProvider("https://www.curseforge.com/minecraft/mc-mods/jei"))
	assert.Equal(t, core.ProviderName(""), supportedProvider("https://example.com/mod.jar"))
}
