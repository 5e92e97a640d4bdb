/*
Copyright © 2025 The iconkit Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/tail"
	"github.com/patchpilot/iconkit"
	"github.com/patchpilot/iconkit/config"
	"github.com/patchpilot/iconkit/logger/dot"
	"github.com/patchpilot/iconkit/version"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

var (
	profile    string
	configFile string
	verbose    bool
)

// tb keeps the latest JSON log lines for error.json.
var tb = tail.New(100)

var rootCmd = &cobra.Command{
	Use:          "iconkit",
	Short:        "iconkit renders the app icon and packages it as an iconset and icns container",
	Long:         `iconkit renders the app icon and packages it as an iconset and icns container.`,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (rev:%s)", version.Version, version.Revision),
}

type errorData struct {
	LatestLogs  []any     `json:"latest_logs"`
	StackTraces any       `json:"stack_traces"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Revision    string    `json:"revision"`
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Write stack trace log to state directory
		dumpPath := filepath.Join(config.StateHomePath(), "error.json")
		if err := writeErrorDump(dumpPath, err); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

func writeErrorDump(dumpPath string, cause error) error {
	d := &errorData{
		LatestLogs:  latestLogs(),
		StackTraces: errors.StackTraces(cause),
		CreatedAt:   time.Now(),
		Version:     version.Version,
		Revision:    version.Revision,
	}
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dumpPath), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dumpPath), err)
	}
	if err := os.WriteFile(dumpPath, b, 0o600); err != nil {
		return fmt.Errorf("failed to write error.json to %s: %w", dumpPath, err)
	}
	return nil
}

// latestLogs returns the buffered log lines, decoded when they are JSON.
func latestLogs() []any {
	var logs []any
	for _, line := range tb.Lines() {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			logs = append(logs, line)
		} else {
			logs = append(logs, m)
		}
	}
	return logs
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "", "", "profile name")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (overrides --profile lookup)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "", false, "print detailed logs to stderr")
}

// loadConfig reads --config when given, otherwise the profile config.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load(profile)
}

// configSource returns the file loadConfig reads, or an empty string.
func configSource() string {
	if configFile != "" {
		return configFile
	}
	return config.Path(profile)
}

// newLogger returns a logger that prints progress glyphs on stdout and keeps
// every record as JSON in tb. With --verbose records are also printed as text
// on stderr. stop must be called when done.
func newLogger() (_ *slog.Logger, stop func(), err error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	jh := slog.NewJSONHandler(tb, &slog.HandlerOptions{Level: level})
	progress, err := dot.New(jh)
	if err != nil {
		return nil, nil, err
	}
	handlers := []slog.Handler{progress, jh}
	if verbose {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slogmulti.Fanout(handlers...)), progress.Stop, nil
}

// newKit builds a Kit from the loaded config and the given overrides.
func newKit(cfg *config.Config, logger *slog.Logger, opts ...iconkit.Option) (*iconkit.Kit, error) {
	base := []iconkit.Option{
		iconkit.WithConfig(cfg),
		iconkit.WithLogger(logger),
	}
	return iconkit.New(append(base, opts...)...)
}
