package migrate

import (
	"fmt"
	"os"

	packCmd "github.com/mcmpmgr/mcmpmgr/cmd"
	"github.com/mcmpmgr/mcmpmgr/cmdshared"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var minecraftCommand = &cobra.Command{
	Use:     "minecraft [version]",
	Short:   "Migrate your Minecraft version, re-pinning every mod for it",
	Aliases: []string{"mc"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		modpack, err := core.LoadPack(packCmd.PackDir())
		if err != nil {
			fmt.Printf("Error loading pack: %s\n", err)
			os.Exit(1)
		}
		wantedMCVersion := args[0]
		if wantedMCVersion == modpack.MCVersion {
			fmt.Printf("Minecraft version is already %s!\n", wantedMCVersion)
			return
		}
		mcVersions, err := cmdshared.GetValidMCVersions()
		if err != nil {
			fmt.Printf("Error getting Minecraft versions: %s\n", err)
			os.Exit(1)
		}
		if err := mcVersions.CheckValid(wantedMCVersion); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		err = migratePack(packCmd.PackDir(), core.NewResolver(nil), func(pack *core.Pack) error {
			pack.MCVersion = wantedMCVersion
			return nil
		}, viper.GetBool("migrate.ignore-transitive-versions"))
		if err != nil {
			fmt.Printf("Failed to migrate to Minecraft %s: %v\n", wantedMCVersion, err)
			os.Exit(1)
		}
		fmt.Printf("Successfully updated Minecraft version to %s\n", wantedMCVersion)
	},
}

func init() {
	migrateCmd.AddCommand(minecraftCommand)
}
