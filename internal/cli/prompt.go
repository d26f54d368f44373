package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// confirm blocks on a y/N prompt read from the command's input. Anything but
// an explicit yes declines.
func confirm(cmd *cobra.Command, message string) bool {
	fmt.Println(message)
	fmt.Print("[y/N] ")
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
