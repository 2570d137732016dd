package cmd

import (
	"fmt"
	"os"

	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Re-resolve every mod in the modpack, rewriting the lockfile from scratch",
	Aliases: []string{"upgrade"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pack, err := core.LoadPack(PackDir())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		resolver := core.NewResolver(core.NewLockFile())
		if err := resolver.Init(pack, viper.GetBool("update.ignore-transitive-versions")); err != nil {
			fmt.Printf("Failed to update mods: %v\n", err)
			os.Exit(1)
		}
		if err := resolver.Lock.Write(PackDir()); err != nil {
			fmt.Printf("Failed to write lockfile: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated %d mods successfully!\n", len(resolver.Lock.Mods))
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	ignoreTransitiveFlag(updateCmd, "update.ignore-transitive-versions")
}
