// Package curseforge registers the CurseForge provider. Resolving mods from CurseForge is not
// supported yet, so specs that name it fail instead of falling through to another provider.
package curseforge

import (
	"fmt"
	"os"

	"github.com/mcmpmgr/mcmpmgr/cmd"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

var curseforgeCmd = &cobra.Command{
	Use:     "curseforge",
	Aliases: []string{"cf", "curse"},
	Short:   "Manage curseforge-based mods",
}

var openCmd = &cobra.Command{
	Use:     "open [slug]",
	Short:   "Open the project page for a curseforge mod in your browser",
	Aliases: []string{"doc"},
	Args:    cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := open.Start(projectURL(args[0])); err != nil {
			fmt.Printf("Failed to open %s: %v\n", projectURL(args[0]), err)
			os.Exit(1)
		}
	},
}

func projectURL(slug string) string {
	return "https://www.curseforge.com/minecraft/mc-mods/" + slug
}

// Resolve always fails with core.ErrNotImplemented
func Resolve(spec core.ModSpec, _ core.Pack) (core.PinnedArtifact, error) {
	return core.PinnedArtifact{}, fmt.Errorf("resolving %s from curseforge: %w", spec.Name, core.ErrNotImplemented)
}

func init() {
	cmd.Add(curseforgeCmd)
	curseforgeCmd.AddCommand(openCmd)
	core.Providers[core.CurseForgeProvider] = core.ModProviderFunc(Resolve)
}
