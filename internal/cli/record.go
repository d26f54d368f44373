package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/internal/client"
)

// NewRecordCmd runs a live recording session until interrupted.
func NewRecordCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a live session and stream the transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL := websocketURL(deps.ServerURL, deps.Token)
			conn, err := client.Dial(wsURL, deps.Token, deps.Logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			controller := client.NewController(conn, terminalView{}, deps.Logger)

			auto, _ := cmd.Flags().GetBool("auto")
			if auto {
				result, err := deps.REST.AutoDetect(cmd.Context())
				if err != nil {
					return err
				}
				if !result.Success {
					return fmt.Errorf("%s", result.Message)
				}
				controller.Picker().ApplyAutoDetect(result.DeviceID, result.DeviceName)
				fmt.Printf("Using detected device %d (%s)\n", result.DeviceID, result.DeviceName)
			} else {
				captureType, _ := cmd.Flags().GetString("type")
				deviceID, _ := cmd.Flags().GetInt("device")
				controller.Picker().Toggle(entities.CaptureType(captureType), deviceID, "")
			}

			if err := controller.Start(); err != nil {
				return err
			}

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			fmt.Println("Recording. Press Ctrl+C to stop.")
		loop:
			for {
				select {
				case payload, ok := <-conn.Events():
					if !ok {
						break loop
					}
					controller.HandleEvent(payload)
				case <-ticker.C:
					controller.Tick()
				case <-interrupt:
					break loop
				}
			}

			controller.Stop()
			fmt.Println()

			export := client.Export{Entries: controller.Transcript()}

			if summarize, _ := cmd.Flags().GetBool("summarize"); summarize {
				provider, _ := cmd.Flags().GetString("provider")
				result, err := deps.REST.GenerateSummary(cmd.Context(), provider)
				if err != nil {
					return err
				}
				export.Summary = result.Summary
				export.Actions = result.Actions
				fmt.Println("SUMMARY:")
				fmt.Println(result.Summary)
				printList("KEY POINTS", result.KeyPoints)
				printList("ACTION ITEMS", result.Actions)
				printList("DECISIONS", result.Decisions)
				fmt.Println("\nSaved as", result.NotesFile)
			}

			save, _ := cmd.Flags().GetBool("save")
			output, _ := cmd.Flags().GetString("output")
			if save || output != "" {
				path, err := saveExport(export, output)
				if err != nil {
					return err
				}
				fmt.Println("Exported", path)
			}
			return nil
		},
	}

	cmd.Flags().String("type", string(entities.CaptureTypeMicrophone), "capture type: speaker or microphone")
	cmd.Flags().Int("device", 0, "capture device id (see 'notesctl devices')")
	cmd.Flags().Bool("auto", false, "auto-detect the active device")
	cmd.Flags().Bool("summarize", false, "generate a summary when the session ends")
	cmd.Flags().String("provider", "", "analysis provider for --summarize")
	cmd.Flags().Bool("save", false, "write the session export to a timestamped file")
	cmd.Flags().StringP("output", "o", "", "export file path (implies --save)")
	return cmd
}

// saveExport writes the session export to path, deriving a timestamped name
// when none is given.
func saveExport(export client.Export, path string) (string, error) {
	if path == "" {
		path = client.ExportFilename(time.Now())
	}
	if err := os.WriteFile(path, []byte(export.Render()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// websocketURL rewrites the HTTP base URL into the /ws endpoint.
func websocketURL(baseURL, token string) string {
	url := baseURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	url += "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}
