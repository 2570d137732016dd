package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mcmpmgr/mcmpmgr/cmdshared"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove [mod...]",
	Short:   "Remove mods from the modpack",
	Aliases: []string{"delete", "uninstall", "rm"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		removeMods(args, viper.GetBool("remove.force"), false)
	},
}

// forbidCmd represents the forbid command
var forbidCmd = &cobra.Command{
	Use:   "forbid [mod...]",
	Short: "Remove mods from the modpack and prevent them from being pinned, even as dependencies",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		removeMods(args, viper.GetBool("forbid.force"), true)
	},
}

func removeMods(names []string, force bool, forbid bool) {
	pack, err := core.LoadPack(PackDir())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	for _, name := range names {
		if _, ok := pack.Mods[name]; !ok && !forbid {
			fmt.Printf("Mod %s is not in the modpack.%s\n", name, cmdshared.DidYouMean(name, modNames(pack)))
			os.Exit(1)
		}
	}

	err = core.UpdateTransaction(PackDir(), func(pack *core.Pack) error {
		for _, name := range names {
			if forbid {
				pack.Forbid(name)
			} else {
				pack.RemoveMod(name)
			}
		}
		return nil
	}, func(pack core.Pack, resolver *core.Resolver) error {
		for _, name := range names {
			if err := resolver.Remove(name, pack, force); err != nil {
				return err
			}
		}
		return nil
	}, false)

	var dependentsErr *core.DependentsExistError
	if errors.As(err, &dependentsErr) {
		fmt.Printf("%v\nUse --force to remove it anyway.\n", dependentsErr)
		os.Exit(1)
	} else if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	message := "removed"
	if forbid {
		message = "forbidden"
	}
	for _, name := range names {
		fmt.Printf("%s %s successfully!\n", name, message)
	}
}

func modNames(pack core.Pack) []string {
	names := make([]string, 0, len(pack.Mods))
	for name := range pack.Mods {
		names = append(names, name)
	}
	return names
}

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(forbidCmd)

	removeCmd.Flags().BoolP("force", "f", false, "Remove the mod even if other pinned mods depend on it")
	_ = viper.BindPFlag("remove.force", removeCmd.Flags().Lookup("force"))
	forbidCmd.Flags().BoolP("force", "f", false, "Remove the mod even if other pinned mods depend on it")
	_ = viper.BindPFlag("forbid.force", forbidCmd.Flags().Lookup("force"))
}
