// Package migrate moves a modpack to another Minecraft version or mod loader, re-pinning every mod
package migrate

import (
	"github.com/mcmpmgr/mcmpmgr/cmd"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateCmd represents the base command when called without any subcommands
var migrateCmd = &cobra.Command{
	Use:   "migrate [minecraft|loader]",
	Short: "Migrate your Minecraft version or mod loader, re-pinning every mod for it",
}

// migratePack applies a change to the manifest and re-pins the whole lockfile against it. If any mod
// can't be pinned for the new target, the manifest and lockfile are left as they were.
func migratePack(dir string, resolver *core.Resolver, mutate func(pack *core.Pack) error, ignoreTransitiveVersions bool) error {
	return core.UpdateTransactionWith(dir, resolver, mutate, func(pack core.Pack, resolver *core.Resolver) error {
		resolver.Lock.Mods = make(map[string]core.PinnedArtifact)
		return resolver.Init(pack, ignoreTransitiveVersions)
	}, ignoreTransitiveVersions)
}

func init() {
	cmd.Add(migrateCmd)

	migrateCmd.PersistentFlags().Bool("ignore-transitive-versions", false, "Pin the newest version of every dependency, ignoring the versions mods ask for")
	_ = viper.BindPFlag("migrate.ignore-transitive-versions", migrateCmd.PersistentFlags().Lookup("ignore-transitive-versions"))
}
