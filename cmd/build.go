package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var buildDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "render the icon, write the iconset and package the icns container",
	Long:  `render the icon, write the iconset and package the icns container into one directory.`,
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
		res, err := k.Build(ctx, buildDir)
		if err != nil {
			return err
		}
		cmd.Printf("master:  %s\n", res.MasterPath)
		cmd.Printf("iconset: %s\n", res.IconsetDir)
		cmd.Printf("icns:    %s (%d bytes)\n", res.IcnsPath, res.Container.TotalSize())
		for _, e := range res.Container.Skipped {
			cmd.Println(color.YellowString("WARNING: %s skipped, %s not found", e.Tag, e.Filename))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildDir, "dir", "d", ".", "output directory")
}
