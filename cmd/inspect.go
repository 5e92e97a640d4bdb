package cmd

import (
	"os"

	"github.com/patchpilot/iconkit/icns"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "list the components of an icns container",
	Long:  `list the components of an icns container.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		c, err := icns.Parse(b)
		if err != nil {
			return err
		}
		cmd.Print(c.Describe())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
