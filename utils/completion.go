package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash/fish/powershell/zsh]",
	Short: "Prints bash/fish/powershell/zsh completion commands",
	Long: `Prints bash/fish/powershell/zsh completion commands.
Load them in your shell profile, for example: source <(mcmpmgr utils completion bash)`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "fish", "powershell", "zsh"},
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeCompletion(cmd.Root(), args[0], os.Stdout); err != nil {
			fmt.Printf("Error generating completion file: %s\n", err)
			os.Exit(1)
		}
	},
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	case "zsh":
		return root.GenZshCompletion(w)
	}
	return fmt.Errorf("unsupported shell %s", shell)
}

func init() {
	utilsCmd.AddCommand(completionCmd)
}
