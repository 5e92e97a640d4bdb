package cmd

import (
	"github.com/fatih/color"
	"github.com/patchpilot/iconkit"
	"github.com/spf13/cobra"
)

var (
	icnsDir string
	icnsOut string
)

var icnsCmd = &cobra.Command{
	Use:   "icns",
	Short: "package an iconset directory into an icns container",
	Long:  `package an iconset directory into an icns container. Missing renditions are skipped.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		c, err := k.BuildIcns(icnsDir, icnsOut)
		if err != nil {
			return err
		}
		cmd.Printf("wrote %s (%d bytes, %d components)\n", icnsOut, c.TotalSize(), len(c.Components))
		for _, e := range c.Skipped {
			cmd.Println(color.YellowString("WARNING: %s skipped, %s not found", e.Tag, e.Filename))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(icnsCmd)
	icnsCmd.Flags().StringVarP(&icnsDir, "dir", "d", iconkit.IconsetDirname, "iconset directory")
	icnsCmd.Flags().StringVarP(&icnsOut, "out", "o", iconkit.ContainerFilename, "output file")
}
