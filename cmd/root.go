package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/mcmpmgr/mcmpmgr/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// Flag values parsed straight into manifest types
var (
	_ pflag.Value = (*core.Side)(nil)
	_ pflag.Value = (*core.Loader)(nil)
	_ pflag.Value = (*core.ApplyPolicy)(nil)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcmpmgr",
	Short: "A command line tool for managing Minecraft modpacks",
}

// Execute starts the root command for mcmpmgr
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Add adds a new command as a subcommand to mcmpmgr
func Add(newCommand *cobra.Command) {
	rootCmd.AddCommand(newCommand)
}

// PackDir returns the modpack project directory that commands operate on
func PackDir() string {
	return viper.GetString("pack-dir")
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("pack-dir", ".", "The modpack project directory")
	_ = viper.BindPFlag("pack-dir", rootCmd.PersistentFlags().Lookup("pack-dir"))

	rootCmd.PersistentFlags().CountP("verbose", "v", "Log more detail (repeat for trace output)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to every prompt")
	_ = viper.BindPFlag("non-interactive", rootCmd.PersistentFlags().Lookup("yes"))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mcmpmgr/config.toml)")

	viper.SetDefault("download.workers", 1)
	viper.SetDefault("http.timeout", 2*time.Minute)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		configPath, err := core.GetConfigPath()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.SetConfigFile(configPath)
	}

	viper.SetEnvPrefix("mcmpmgr")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	configErr := viper.ReadInConfig()

	verbosity := viper.GetInt("verbose")
	if viper.GetBool("quiet") {
		verbosity = -1
	}
	logging.SetupLogger(verbosity)
	log := logging.GetLogger("config")
	if configErr == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
	} else if cfgFile != "" {
		log.Warn().Err(configErr).Msg("Failed to read config file")
	}

	core.HTTPClient.Timeout = viper.GetDuration("http.timeout")
}

// ignoreTransitiveFlag adds the flag that relaxes dependency version constraints to a command
func ignoreTransitiveFlag(c *cobra.Command, key string) {
	c.Flags().Bool("ignore-transitive-versions", false, "Pin the newest version of every dependency, ignoring the versions mods ask for")
	_ = viper.BindPFlag(key, c.Flags().Lookup("ignore-transitive-versions"))
}
