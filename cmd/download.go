package cmd

import (
	"fmt"
	"os"

	"github.com/mcmpmgr/mcmpmgr/cmdshared"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var downloadSide = core.SideBoth

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [target-dir]",
	Short: "Download the pinned mods into a directory, deleting files that are not pinned",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lock, err := core.LoadLockFile(PackDir(), core.NewResolver(nil), false)
		if err != nil {
			fmt.Printf("Failed to load lockfile: %v\n", err)
			os.Exit(1)
		}
		if err := syncMods(lock, args[0], downloadSide); err != nil {
			fmt.Printf("Failed to download mods: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Mods downloaded successfully!")
	},
}

// syncMods synchronises a directory with the lockfile, showing a progress bar
func syncMods(lock *core.LockFile, targetDir string, side core.Side) error {
	reporter := &cmdshared.ProgressReporter{}
	err := lock.Sync(targetDir, side, core.SyncOptions{
		Workers:  viper.GetInt("download.workers"),
		Reporter: reporter,
	})
	reporter.Finish()
	return err
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().VarP(&downloadSide, "side", "s", "Side to download mods for (both, server or client)")
	downloadCmd.Flags().Int("workers", 1, "Number of files to download at once")
	_ = viper.BindPFlag("download.workers", downloadCmd.Flags().Lookup("workers"))
}
