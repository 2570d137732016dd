package cmd

import (
	"fmt"
	"os"

	"github.com/mcmpmgr/mcmpmgr/cmdshared"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/mcmpmgr/mcmpmgr/profiles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/dixonwille/wmenu.v4"
)

var profileSide = core.SideClient

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Manage the Minecraft instances that modpacks are installed into",
	Aliases: []string{"profiles"},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the saved profiles",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		data, _ := loadProfilesOrExit()
		names := data.Names()
		if len(names) == 0 {
			fmt.Println("There are no profiles; add one with profile add")
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add [name] [instance-folder] [pack-source]",
	Short: "Add a profile; the pack source is a pack directory or git+<url>",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		data, path := loadProfilesOrExit()
		if _, ok := data.Get(args[0]); ok && !cmdshared.PromptYesNo("Profile " + args[0] + " already exists. Replace it? [Y/n] ") {
			fmt.Println("Cancelled!")
			return
		}
		source, err := profiles.ParsePackSource(args[2])
		if err != nil {
			cmdshared.Exitf("%v", err)
		}
		profile, err := profiles.NewProfile(args[1], source, profileSide)
		if err != nil {
			cmdshared.Exitf("%v", err)
		}
		data.Add(args[0], profile)
		if err := data.Save(path); err != nil {
			cmdshared.Exitf("Failed to save profiles: %v", err)
		}
		fmt.Printf("Profile %s added!\n", args[0])
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the settings of a profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, _ := loadProfilesOrExit()
		profile := getProfileOrExit(data, args[0])
		fmt.Printf("Instance folder: %s\nPack source: %s\nSide: %s\n", profile.InstanceFolder, profile.PackSource, profile.Side)
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:     "remove [name]",
	Short:   "Remove a profile; the instance folder is left untouched",
	Aliases: []string{"rm", "delete"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, path := loadProfilesOrExit()
		getProfileOrExit(data, args[0])
		data.Remove(args[0])
		if err := data.Save(path); err != nil {
			cmdshared.Exitf("Failed to save profiles: %v", err)
		}
		fmt.Printf("Profile %s removed!\n", args[0])
	},
}

var profileInstallCmd = &cobra.Command{
	Use:   "install [name]",
	Short: "Install a profile's modpack into its instance folder",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, _ := loadProfilesOrExit()
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			name = chooseProfile(data)
			if name == "" {
				fmt.Println("Cancelled!")
				return
			}
		}
		profile := getProfileOrExit(data, name)

		reporter := &cmdshared.ProgressReporter{}
		err := profile.Install(core.SyncOptions{
			Workers:  viper.GetInt("download.workers"),
			Reporter: reporter,
		})
		reporter.Finish()
		if err != nil {
			cmdshared.Exitf("Failed to install profile %s: %v", name, err)
		}
		fmt.Printf("Profile %s installed!\n", name)
	},
}

func loadProfilesOrExit() (*profiles.Data, string) {
	data, path, err := profiles.LoadDefault()
	if err != nil {
		cmdshared.Exitf("Failed to load profiles: %v", err)
	}
	return data, path
}

func getProfileOrExit(data *profiles.Data, name string) profiles.Profile {
	profile, ok := data.Get(name)
	if !ok {
		cmdshared.Exitf("Profile %s does not exist.%s", name, cmdshared.DidYouMean(name, data.Names()))
	}
	return profile
}

// chooseProfile asks the user to pick a profile, returning an empty string if they cancel
func chooseProfile(data *profiles.Data) string {
	names := data.Names()
	if len(names) == 0 {
		cmdshared.Exitf("There are no profiles; add one with profile add")
	}
	if len(names) == 1 || viper.GetBool("non-interactive") {
		return names[0]
	}

	var chosen string
	menu := wmenu.NewMenu("Choose a number:")
	for i, name := range names {
		menu.Option(name, name, i == 0, nil)
	}
	menu.Option("Cancel", nil, false, nil)
	menu.Action(func(menuRes []wmenu.Opt) error {
		if len(menuRes) != 1 || menuRes[0].Value == nil {
			return nil
		}
		name, ok := menuRes[0].Value.(string)
		if !ok {
			return fmt.Errorf("error converting interface from wmenu")
		}
		chosen = name
		return nil
	})
	if err := menu.Run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return chosen
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd, profileAddCmd, profileShowCmd, profileRemoveCmd, profileInstallCmd)

	profileAddCmd.Flags().VarP(&profileSide, "side", "s", "Side the instance is for (both, server or client)")
}
