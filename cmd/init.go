package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
	"github.com/mcmpmgr/mcmpmgr/cmdshared"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initLoader = core.LoaderFabric

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialise a modpack project in a directory (the pack directory if not given)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := PackDir()
		if len(args) > 0 {
			dir = args[0]
		}
		name := viper.GetString("init.name")
		if len(name) == 0 {
			name = defaultPackName(dir)
			if name != "" {
				name = initReadValue("Modpack name ["+name+"]: ", name)
			} else {
				name = initReadValue("Modpack name: ", "")
			}
		}
		initPack(dir, name)
	},
}

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a directory for a new modpack project and initialise it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := filepath.Join(PackDir(), args[0])
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("Failed to create directory %s: %v\n", dir, err)
			os.Exit(1)
		}
		name := viper.GetString("init.name")
		if len(name) == 0 {
			name = args[0]
		}
		initPack(dir, name)
	},
}

func initPack(dir string, name string) {
	mcVersion := resolveMCVersion()

	pack := core.NewPack(name, mcVersion, initLoader)
	providers := viper.GetStringSlice("init.providers")
	if len(providers) > 0 {
		pack.DefaultProviders = nil
	}
	for _, p := range providers {
		provider, err := core.ParseProviderName(p)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		pack.AddProvider(provider)
	}

	if err := pack.InitProject(dir); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("%s created for %s %s with %s!\n", filepath.Join(dir, core.PackFileName), name, mcVersion, initLoader.FriendlyName())
}

// resolveMCVersion picks the Minecraft version from the flags, checking it against Mojang's version list
func resolveMCVersion() string {
	mcVersion := viper.GetString("init.mc-version")
	if viper.GetBool("init.offline") && !viper.GetBool("init.latest") {
		return mcVersion
	}

	mcVersions, err := cmdshared.GetValidMCVersions()
	if err != nil {
		if viper.GetBool("init.latest") {
			fmt.Printf("Failed to get latest minecraft versions: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Warning: could not check the Minecraft version: %s\n", err)
		return mcVersion
	}
	if viper.GetBool("init.latest") {
		return mcVersions.Latest(viper.GetBool("init.snapshot"))
	}
	if err := mcVersions.CheckValid(mcVersion); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return mcVersion
}

// defaultPackName turns a directory name into a space-separated proper name
func defaultPackName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	directoryName := filepath.Base(abs)
	if directoryName == "." || directoryName == string(filepath.Separator) || len(directoryName) == 0 {
		return ""
	}
	return titlecase.Title(strings.ReplaceAll(strings.ReplaceAll(strings.Join(camelcase.Split(directoryName), " "), " - ", " "), " _ ", " "))
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newCmd)

	for _, c := range []*cobra.Command{initCmd, newCmd} {
		c.Flags().String("name", "", "The name of the modpack")
		c.Flags().String("mc-version", "1.20.1", "The Minecraft version to use")
		c.Flags().BoolP("latest", "l", false, "Automatically select the latest version of Minecraft")
		c.Flags().BoolP("snapshot", "s", false, "Use the latest snapshot version with --latest")
		c.Flags().Bool("offline", false, "Don't check the Minecraft version against Mojang's version list")
		c.Flags().StringSlice("providers", []string{string(core.ModrinthProvider)}, "Default providers to resolve mods with, in order")
		c.Flags().Var(&initLoader, "modloader", "The mod loader to use (fabric, forge, quilt or neoforge)")
		c.PreRun = bindInitFlags
	}
}

// bindInitFlags binds the flags of whichever of init and new is running to the shared init.* keys
func bindInitFlags(c *cobra.Command, _ []string) {
	for _, flag := range []string{"name", "mc-version", "latest", "snapshot", "offline", "providers"} {
		_ = viper.BindPFlag("init."+flag, c.Flags().Lookup(flag))
	}
}

func initReadValue(prompt string, def string) string {
	fmt.Print(prompt)
	if viper.GetBool("non-interactive") {
		fmt.Printf("%s\n", def)
		return def
	}
	value, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		fmt.Printf("Error reading input: %s\n", err)
		os.Exit(1)
	}
	// Trims both CR and LF
	value = strings.TrimSpace(strings.TrimRight(value, "\r\n"))
	if len(value) > 0 {
		return value
	}
	return def
}
