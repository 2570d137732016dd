// Package url pins mods from direct download links
package url

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/mcmpmgr/mcmpmgr/cmd"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// UnknownVersion is recorded for artifacts whose version can't be known from a bare URL
const UnknownVersion = "Unknown"

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Add external files from a direct download link, for sites that are not directly supported by mcmpmgr",
}

var addCmd = &cobra.Command{
	Use:     "add [name] [url]",
	Short:   "Add an external file from a direct download link",
	Aliases: []string{"install", "get"},
	Args:    cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		dl, err := core.ReencodeURL(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if !viper.GetBool("url.add.force") {
			if alt := supportedProvider(dl); alt != "" {
				fmt.Printf("Consider using the %s provider instead; if you know what you are doing use --force to add this file anyway\n", alt)
				os.Exit(1)
			}
		}

		spec := core.ModSpec{
			Name:        args[0],
			Version:     core.AnyVersion,
			Providers:   []core.ProviderName{core.RawProvider},
			DownloadURL: dl,
		}
		err = core.UpdateTransaction(cmd.PackDir(), func(pack *core.Pack) error {
			return pack.AddMod(spec)
		}, func(pack core.Pack, resolver *core.Resolver) error {
			return resolver.Repin(spec, pack, false)
		}, false)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println("Successfully added", args[0], "from url", dl)
	},
}

// supportedProvider returns the provider that should be used for a URL's host, if there is one
func supportedProvider(dl string) core.ProviderName {
	parsed, err := url.Parse(dl)
	if err != nil {
		return ""
	}
	switch parsed.Host {
	case "modrinth.com", "cdn.modrinth.com":
		return core.ModrinthProvider
	case "www.curseforge.com", "curseforge.com":
		return core.CurseForgeProvider
	}
	return ""
}

// Provider pins a mod to the file behind its download URL
type Provider struct{}

func (Provider) Resolve(spec core.ModSpec, _ core.Pack) (core.PinnedArtifact, error) {
	if spec.DownloadURL == "" {
		return core.PinnedArtifact{}, fmt.Errorf("mod %s has no download url", spec.Name)
	}
	filename, err := core.FilenameFromURL(spec.DownloadURL)
	if err != nil {
		return core.PinnedArtifact{}, err
	}

	resp, err := core.GetWithUA(spec.DownloadURL, "")
	if err != nil {
		return core.PinnedArtifact{}, err
	}
	defer resp.Body.Close()
	hashes, _, err := core.HashReader(io.Discard, resp.Body)
	if err != nil {
		return core.PinnedArtifact{}, fmt.Errorf("failed to hash %s: %w", spec.DownloadURL, err)
	}

	server, client := spec.SideOr(true)
	return core.PinnedArtifact{
		Sources:    []core.ArtifactSource{core.DownloadSource(spec.DownloadURL, filename, hashes)},
		Version:    UnknownVersion,
		ServerSide: server,
		ClientSide: client,
	}, nil
}

func init() {
	cmd.Add(urlCmd)
	urlCmd.AddCommand(addCmd)
	core.Providers[core.RawProvider] = Provider{}

	addCmd.Flags().Bool("force", false, "Add the file even if the url is supported by another provider")
	_ = viper.BindPFlag("url.add.force", addCmd.Flags().Lookup("force"))
}
