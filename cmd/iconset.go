package cmd

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/patchpilot/iconkit"
	"github.com/spf13/cobra"
)

var (
	masterPath string
	iconsetDir string
)

var iconsetCmd = &cobra.Command{
	Use:   "iconset",
	Short: "write the iconset renditions",
	Long:  `write one PNG per icns tag into the iconset directory. The master is rendered unless --master is given.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, stop, err := newLogger()
		if err != nil {
			return err
		}
		defer stop()
		k, err := newKit(cfg, logger)
		if err != nil {
			return err
		}
		var master image.Image
		if masterPath != "" {
			master, err = decodeImage(masterPath)
			if err != nil {
				return err
			}
		} else {
			master = k.Render()
		}
		renditions, err := k.WriteIconset(ctx, master, iconsetDir)
		if err != nil {
			return err
		}
		cmd.Printf("\nwrote %d renditions to %s\n", len(renditions), iconsetDir)
		return nil
	},
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

func init() {
	rootCmd.AddCommand(iconsetCmd)
	iconsetCmd.Flags().StringVarP(&masterPath, "master", "m", "", "master PNG to scale from")
	iconsetCmd.Flags().StringVarP(&iconsetDir, "dir", "d", iconkit.IconsetDirname, "iconset directory")
}
