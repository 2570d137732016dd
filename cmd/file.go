package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mcmpmgr/mcmpmgr/cmdshared"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	fileSide   = core.SideServer
	filePolicy = core.ApplyAlways
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage files and folders that are installed into instances alongside the mods",
}

var fileAddCmd = &cobra.Command{
	Use:   "add [local-path]",
	Short: "Add a file or folder from the pack directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pack := loadPackOrExit()
		localPath := relativeToPack(args[0])
		targetPath := viper.GetString("file.target-path")
		if targetPath == "" {
			normalised, err := core.NormalizeRelativePath(localPath, PackDir())
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			targetPath = normalised
		}
		entry := core.FileEntry{TargetPath: filepath.ToSlash(targetPath), Side: fileSide, ApplyPolicy: filePolicy}
		if err := pack.AddFile(localPath, entry, PackDir()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := pack.Write(PackDir()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("%s added to the pack!\n", args[0])
	},
}

var fileRemoveCmd = &cobra.Command{
	Use:     "remove [local-path]",
	Short:   "Remove a file or folder from the pack",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pack := loadPackOrExit()
		if err := pack.RemoveFile(relativeToPack(args[0]), PackDir()); err != nil {
			fmt.Printf("%v%s\n", err, cmdshared.DidYouMean(args[0], fileKeys(pack)))
			os.Exit(1)
		}
		if err := pack.Write(PackDir()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("%s removed from the pack!\n", args[0])
	},
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the files and folders in the pack",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pack := loadPackOrExit()
		for _, key := range fileKeys(pack) {
			entry := pack.Files[key]
			fmt.Printf("%s -> %s (%s, %s)\n", key, entry.TargetPath, entry.Side, entry.ApplyPolicy)
		}
	},
}

var fileShowCmd = &cobra.Command{
	Use:   "show [local-path]",
	Short: "Show how a file or folder in the pack is installed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pack := loadPackOrExit()
		key, err := core.NormalizeRelativePath(relativeToPack(args[0]), PackDir())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		entry, ok := pack.Files[key]
		if !ok {
			fmt.Printf("%s is not a file in the pack.%s\n", key, cmdshared.DidYouMean(key, fileKeys(pack)))
			os.Exit(1)
		}
		fmt.Printf("Local path:   %s\n", key)
		fmt.Printf("Target path:  %s\n", entry.TargetPath)
		fmt.Printf("Side:         %s\n", entry.Side)
		fmt.Printf("Apply policy: %s\n", entry.ApplyPolicy)
	},
}

func loadPackOrExit() core.Pack {
	pack, err := core.LoadPack(PackDir())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return pack
}

// relativeToPack converts a path given on the command line, relative to the working directory, into one
// relative to the pack directory
func relativeToPack(p string) string {
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(PackDir(), p); err == nil {
			return rel
		}
		return p
	}
	absPack, err := filepath.Abs(PackDir())
	if err != nil {
		return p
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(absPack, absPath); err == nil {
		return rel
	}
	return p
}

func fileKeys(pack core.Pack) []string {
	keys := make([]string, 0, len(pack.Files))
	for k := range pack.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileAddCmd, fileRemoveCmd, fileListCmd, fileShowCmd)

	fileAddCmd.Flags().String("target-path", "", "Path relative to the instance directory to install to (defaults to the local path)")
	_ = viper.BindPFlag("file.target-path", fileAddCmd.Flags().Lookup("target-path"))
	fileAddCmd.Flags().Var(&fileSide, "side", "Side to install the file on (both, server or client)")
	fileAddCmd.Flags().Var(&filePolicy, "apply-policy", "How to apply the file (Always, Once, MergeRetain or MergeOverwrite)")
}
