package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDevicesCmd lists capture devices and runs auto-detect.
func NewDevicesCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the server's audio capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := deps.REST.Devices(cmd.Context())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("No capture devices found")
				return nil
			}
			for _, d := range devices {
				fmt.Printf("%3d  %-40s %d ch  %d Hz\n", d.ID, d.Name, d.Inputs, d.Rate)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "detect",
		Short: "Find the device currently producing audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := deps.REST.AutoDetect(cmd.Context())
			if err != nil {
				return err
			}
			if !result.Success {
				fmt.Println(result.Message)
				return nil
			}
			fmt.Printf("Detected device %d (%s), level %.4f\n",
				result.DeviceID, result.DeviceName, result.Level)
			return nil
		},
	})

	return cmd
}
