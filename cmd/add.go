package cmd

import (
	"fmt"
	"os"

	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	addLoader core.Loader
	addSide   core.Side
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:     "add [mod[@version]...]",
	Short:   "Add mods to the modpack and pin them with their dependencies",
	Aliases: []string{"install", "get"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var providers []core.ProviderName
		for _, p := range viper.GetStringSlice("add.providers") {
			provider, err := core.ParseProviderName(p)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			providers = append(providers, provider)
		}

		specs := make([]core.ModSpec, 0, len(args))
		for _, arg := range args {
			spec, err := core.ParseModSpec(arg)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			for _, p := range providers {
				spec = spec.WithProvider(p)
			}
			spec.MCVersion = viper.GetString("add.mc-version")
			spec.Loader = addLoader
			if url := viper.GetString("add.url"); url != "" {
				if len(args) > 1 {
					fmt.Println("A download URL can only be given when adding a single mod")
					os.Exit(1)
				}
				reencoded, err := core.ReencodeURL(url)
				if err != nil {
					fmt.Println(err)
					os.Exit(1)
				}
				spec.DownloadURL = reencoded
				spec = spec.WithProvider(core.RawProvider)
			}
			if addSide != "" {
				spec = spec.WithSide(addSide)
			}
			specs = append(specs, spec)
		}

		ignoreTransitive := viper.GetBool("add.ignore-transitive-versions")
		err := core.UpdateTransaction(PackDir(), func(pack *core.Pack) error {
			for _, spec := range specs {
				if err := pack.AddMod(spec); err != nil {
					return err
				}
			}
			return nil
		}, func(pack core.Pack, resolver *core.Resolver) error {
			for _, spec := range specs {
				if err := resolver.Repin(spec, pack, ignoreTransitive); err != nil {
					return err
				}
			}
			return nil
		}, ignoreTransitive)
		if err != nil {
			fmt.Printf("Failed to add mods: %v\n", err)
			os.Exit(1)
		}
		for _, spec := range specs {
			fmt.Printf("%s successfully added!\n", spec)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringSlice("providers", nil, "Providers to try before the pack's default providers")
	_ = viper.BindPFlag("add.providers", addCmd.Flags().Lookup("providers"))
	addCmd.Flags().String("url", "", "Direct download URL of the mod, implies the raw provider")
	_ = viper.BindPFlag("add.url", addCmd.Flags().Lookup("url"))
	addCmd.Flags().String("mc-version", "", "Minecraft version override for this mod")
	_ = viper.BindPFlag("add.mc-version", addCmd.Flags().Lookup("mc-version"))
	addCmd.Flags().Var(&addLoader, "loader", "Mod loader override for this mod")
	addCmd.Flags().Var(&addSide, "side", "Side the mod is required on (both, server or client)")
	ignoreTransitiveFlag(addCmd, "add.ignore-transitive-versions")
}
