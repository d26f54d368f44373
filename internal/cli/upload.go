package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adhikari10/AI-Meeting-Notes/internal/client"
	"github.com/adhikari10/AI-Meeting-Notes/usecase"
)

// NewUploadCmd uploads an audio file for transcription and analysis.
func NewUploadCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Transcribe and analyze an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return err
			}

			policy := client.DefaultUploadPolicy()
			decision, err := policy.Check(info.Name(), info.Size())
			if err != nil {
				return err
			}

			skipConfirm, _ := cmd.Flags().GetBool("yes")
			if decision.NeedsConfirm && !skipConfirm && !confirm(cmd, decision.Message) {
				fmt.Println("Aborted")
				return nil
			}

			summary, _ := cmd.Flags().GetBool("summary")
			actions, _ := cmd.Flags().GetBool("actions")
			decisions, _ := cmd.Flags().GetBool("decisions")
			model, _ := cmd.Flags().GetString("model")

			fmt.Println("Uploading", info.Name(), "...")
			result, err := deps.REST.ProcessFile(cmd.Context(), path, usecase.ProcessOptions{
				GenerateSummary: summary,
				ExtractActions:  actions,
				DetectDecisions: decisions,
				Provider:        model,
			})
			if err != nil {
				return err
			}

			fmt.Println("\nTRANSCRIPT:")
			fmt.Println(result.Transcript)
			if result.Summary != "" {
				fmt.Println("\nSUMMARY:")
				fmt.Println(result.Summary)
			}
			printList("KEY POINTS", result.KeyPoints)
			printList("ACTION ITEMS", result.Actions)
			printList("DECISIONS", result.Decisions)
			fmt.Println("\nSaved as", result.NotesFile)
			return nil
		},
	}

	cmd.Flags().Bool("summary", true, "generate a summary")
	cmd.Flags().Bool("actions", true, "extract action items")
	cmd.Flags().Bool("decisions", true, "detect decisions")
	cmd.Flags().Bool("yes", false, "skip the large-file confirmation")
	cmd.Flags().String("model", "", "analysis provider (defaults to the server's)")
	return cmd
}

func printList(header string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Println("\n" + header + ":")
	for _, item := range items {
		fmt.Println("-", item)
	}
}
