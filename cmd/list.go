package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listSide = core.SideBoth

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all the pinned mods in the modpack",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pack, err := core.LoadPack(PackDir())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		lock, err := core.LoadLockFile(PackDir(), core.NewResolver(nil), false)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Filter mods by side
		var names []string
		for name, artifact := range lock.Mods {
			if listSide.Matches(artifact.ServerSide, artifact.ClientSide) {
				names = append(names, name)
			}
		}
		sort.Slice(names, func(i, j int) bool {
			return strings.ToLower(names[i]) < strings.ToLower(names[j])
		})

		for _, name := range names {
			artifact := lock.Mods[name]
			line := name
			if viper.GetBool("list.version") {
				line += "@" + artifact.Version
			}
			if _, direct := pack.Mods[name]; !direct {
				line += " (dependency of " + strings.Join(lock.Dependents(name), ", ") + ")"
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("version", false, "Print name and version")
	_ = viper.BindPFlag("list.version", listCmd.Flags().Lookup("version"))
	listCmd.Flags().VarP(&listSide, "side", "s", "Filter mods by side (both, server or client)")
}
