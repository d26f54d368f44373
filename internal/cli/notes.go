package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewNotesCmd is the saved-notes browser.
func NewNotesCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Browse saved meeting notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := deps.REST.Notes(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No notes yet")
				return nil
			}
			for _, item := range items {
				fmt.Printf("%-40s  %-16s  %-7s  %s\n", item.ID, item.Date, item.Type, item.Title)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print one note in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := deps.REST.DownloadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	})

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skipConfirm, _ := cmd.Flags().GetBool("yes")
			if !skipConfirm && !confirm(cmd, fmt.Sprintf("Delete note %s? This cannot be undone.", args[0])) {
				fmt.Println("Aborted")
				return nil
			}
			if err := deps.REST.DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}
	deleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	cmd.AddCommand(deleteCmd)

	download := &cobra.Command{
		Use:   "download <id>",
		Short: "Save a note's text rendering to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := deps.REST.DownloadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				out = args[0] + ".txt"
			}
			if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
				return err
			}
			fmt.Println("Saved", out)
			return nil
		},
	}
	download.Flags().StringP("output", "o", "", "output file (default <id>.txt)")
	cmd.AddCommand(download)

	return cmd
}
