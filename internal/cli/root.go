package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/internal/client"
)

// Dependencies carries everything the commands need.
type Dependencies struct {
	REST      *client.REST
	ServerURL string
	Token     string
	Logger    *zap.Logger
}

// NewRootCmd builds the notesctl command tree.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "notesctl",
		Short: "Record meetings, transcribe, and browse notes",
		Long:  "Command line client for the meeting notes server: live recording sessions, audio file uploads, and the saved notes browser.",
	}

	rootCmd.AddCommand(NewDevicesCmd(deps))
	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewUploadCmd(deps))
	rootCmd.AddCommand(NewNotesCmd(deps))

	return rootCmd
}
