package cmdshared

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// PromptYesNo asks a yes/no question on stdin, defaulting to yes. In non-interactive mode it always answers yes.
func PromptYesNo(prompt string) bool {
	return promptYesNo(prompt, os.Stdin)
}

func promptYesNo(prompt string, in io.Reader) bool {
	fmt.Print(prompt)
	if viper.GetBool("non-interactive") {
		fmt.Println("Y (non-interactive mode)")
		return true
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Printf("Failed to prompt user: %v\n", err)
		os.Exit(1)
	}

	ansNormal := strings.ToLower(strings.TrimSpace(answer))
	if len(ansNormal) > 0 && ansNormal[0] == 'n' {
		return false
	}
	return true
}

// Exitf prints a message and exits with a failure status
func Exitf(format string, a ...interface{}) {
	fmt.Printf(format+"\n", a...)
	os.Exit(1)
}
