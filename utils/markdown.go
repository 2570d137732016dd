package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/viper"
)

// markdownCmd represents the markdown command
var markdownCmd = &cobra.Command{
	Use:     "markdown",
	Short:   "Generate markdown documentation for every command",
	Aliases: []string{"md", "docs"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		outDir := viper.GetString("utils.markdown.dir")
		if err := generateDocs(cmd.Root(), outDir, viper.GetBool("utils.markdown.man")); err != nil {
			fmt.Printf("Error generating documentation: %s\n", err)
			os.Exit(1)
		}
		fmt.Println("Generated documentation successfully!")
	},
}

// generateDocs writes a page per command into outDir, as markdown with a title header or as man pages
func generateDocs(root *cobra.Command, outDir string, man bool) error {
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}
	root.DisableAutoGenTag = true
	if man {
		return doc.GenManTree(root, &doc.GenManHeader{Title: strings.ToUpper(root.Name()), Section: "1"}, outDir)
	}
	prepender := func(filename string) string {
		name := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(filename), ".md"), "_", " ")
		return "---\ntitle: \"" + name + "\"\n---\n\n"
	}
	return doc.GenMarkdownTreeCustom(root, outDir, prepender, func(link string) string {
		return strings.TrimSuffix(link, ".md")
	})
}

func init() {
	utilsCmd.AddCommand(markdownCmd)

	markdownCmd.Flags().String("dir", ".", "The destination directory to save docs in")
	_ = viper.BindPFlag("utils.markdown.dir", markdownCmd.Flags().Lookup("dir"))
	markdownCmd.Flags().Bool("man", false, "Generate man pages instead of markdown")
	_ = viper.BindPFlag("utils.markdown.man", markdownCmd.Flags().Lookup("man"))
}
