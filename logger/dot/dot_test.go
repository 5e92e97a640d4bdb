package dot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fatih/color"
)

func TestHandle(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{"master", []string{"rendering icon", "rendered icon", "wrote master icon"}, "o"},
		{"rerender", []string{"rendering icon", "wrote master icon", "rendering icon", "rendered icon", "wrote master icon"}, "oo"},
		{"renditions", []string{"wrote rendition", "wrote rendition", "rendition drifted from master"}, "..*"},
		{"pack", []string{"packed component", "skipped component", "packed component", "wrote icns"}, "+-+\n"},
		{"failure", []string{"wrote rendition", "failed to write master icon"}, ".!"},
		{"ignored", []string{"build completed"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := new(bytes.Buffer)
			h, err := newWithWriter(slog.NewJSONHandler(io.Discard, nil), out)
			if err != nil {
				t.Fatal(err)
			}
			t.Cleanup(h.Stop)
			logger := slog.New(h)
			for _, m := range tt.messages {
				logger.Info(m)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithAttrsSharesOutput(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	out := new(bytes.Buffer)
	h, err := newWithWriter(slog.NewJSONHandler(io.Discard, nil), out)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Stop)
	logger := slog.New(h).With(slog.String("dir", "AppIcon.iconset")).WithGroup("icns")
	logger.Info("packed component")
	if got := out.String(); got != "+" {
		t.Errorf("got %q, want %q", got, "+")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be enabled")
	}
}
