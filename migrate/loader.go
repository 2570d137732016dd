package migrate

import (
	"fmt"
	"os"

	packCmd "github.com/mcmpmgr/mcmpmgr/cmd"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var loaderCommand = &cobra.Command{
	Use:   "loader [fabric|forge|quilt|neoforge]",
	Short: "Migrate your mod loader, re-pinning every mod for it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := core.ParseLoader(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		err = migratePack(packCmd.PackDir(), core.NewResolver(nil), func(pack *core.Pack) error {
			if pack.Loader == loader {
				return fmt.Errorf("mod loader is already %s", loader.FriendlyName())
			}
			pack.Loader = loader
			return nil
		}, viper.GetBool("migrate.ignore-transitive-versions"))
		if err != nil {
			fmt.Printf("Failed to migrate to %s: %v\n", loader.FriendlyName(), err)
			os.Exit(1)
		}
		fmt.Printf("Successfully updated mod loader to %s\n", loader.FriendlyName())
	},
}

func init() {
	migrateCmd.AddCommand(loaderCommand)
}
