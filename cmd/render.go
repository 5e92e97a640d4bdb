package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/patchpilot/iconkit"
	"github.com/spf13/cobra"
)

var (
	renderOut   string
	renderSize  int
	renderWatch bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "render the master icon as PNG",
	Long:  `render the master icon as PNG. With --watch the icon is rendered again whenever the config file changes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, stop, err := newLogger()
		if err != nil {
			return err
		}
		defer stop()

		render := func() error {
			path, err := renderMaster(logger)
			if err != nil {
				return err
			}
			cmd.Printf("\nwrote %s\n", path)
			return nil
		}
		if err := render(); err != nil {
			return err
		}
		if !renderWatch {
			return nil
		}
		src := configSource()
		if src == "" {
			return fmt.Errorf("--watch requires a config file. Use --config or create one for the profile")
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		cmd.Printf("watching %s\n", src)
		return watchFile(ctx, src, func() {
			if err := render(); err != nil {
				logger.Error("failed to render icon", slog.String("error", err.Error()))
			}
		})
	},
}

// renderMaster loads the config and writes the master PNG.
func renderMaster(logger *slog.Logger) (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	var opts []iconkit.Option
	if renderSize > 0 {
		opts = append(opts, iconkit.WithSize(renderSize))
	}
	k, err := newKit(cfg, logger, opts...)
	if err != nil {
		return "", err
	}
	out := renderOut
	if out == "" {
		out = iconkit.MasterFilename(k.Size())
	}
	if _, err := k.WriteMaster(out); err != nil {
		return "", err
	}
	return out, nil
}

// watchFile calls fn each time path is written or replaced until ctx is done.
// The parent directory is watched so editors that save by rename are seen.
func watchFile(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				fn()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default AppIcon-SIZE.png)")
	renderCmd.Flags().IntVarP(&renderSize, "size", "s", 0, "icon size in pixels (default from config or 1024)")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "render again when the config file changes")
}
