package cmd

import (
	"fmt"
	"os"

	"github.com/mcmpmgr/mcmpmgr/cmdshared"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
)

// pinMod sets a mod's version constraint in the manifest to its locked version, or back to any version
func pinMod(name string, pinned bool) {
	pack, err := core.LoadPack(PackDir())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	spec, ok := pack.Mods[name]
	if !ok {
		fmt.Printf("Mod %s is not in the modpack.%s\n", name, cmdshared.DidYouMean(name, modNames(pack)))
		os.Exit(1)
	}

	version := core.AnyVersion
	if pinned {
		lock, err := core.ReadLockFile(PackDir())
		if err != nil {
			fmt.Printf("Failed to read lockfile: %v\n", err)
			os.Exit(1)
		}
		artifact, ok := lock.Mods[name]
		if !ok {
			fmt.Printf("Mod %s is not pinned in the lockfile, run update first\n", name)
			os.Exit(1)
		}
		version = artifact.Version
	}
	spec = spec.WithVersion(version)

	err = core.UpdateTransaction(PackDir(), func(pack *core.Pack) error {
		return pack.AddMod(spec)
	}, func(pack core.Pack, resolver *core.Resolver) error {
		return resolver.Repin(spec, pack, false)
	}, false)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	message := "pinned to " + version
	if !pinned {
		message = "unpinned"
	}
	fmt.Printf("%s %s successfully!\n", name, message)
}

// pinCmd represents the pin command
var pinCmd = &cobra.Command{
	Use:     "pin [mod]",
	Short:   "Require the currently locked version of a mod, so it does not change on update",
	Aliases: []string{"hold"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pinMod(args[0], true)
	},
}

// unpinCmd represents the unpin command
var unpinCmd = &cobra.Command{
	Use:     "unpin [mod]",
	Short:   "Allow any version of a mod, so it receives updates",
	Aliases: []string{"unhold"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pinMod(args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(unpinCmd)
}
