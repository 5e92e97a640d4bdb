package iconkit

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/k1LoW/errors"
	"github.com/patchpilot/iconkit/config"
	"github.com/patchpilot/iconkit/icns"
	"github.com/patchpilot/iconkit/iconset"
	"github.com/patchpilot/iconkit/pngenc"
	"github.com/patchpilot/iconkit/raster"
)

const (
	IconsetDirname    = "AppIcon.iconset"
	ContainerFilename = "AppIcon.icns"
)

// MasterFilename returns the file name of the rendered master for size.
func MasterFilename(size int) string {
	return fmt.Sprintf("AppIcon-%d.png", size)
}

type Kit struct {
	size            int
	palette         Palette
	table           []icns.Entry
	verifyThreshold int
	logger          *slog.Logger
}

type Option func(*Kit) error

func WithSize(size int) Option {
	return func(k *Kit) error {
		if size <= 0 {
			return fmt.Errorf("invalid icon size: %d", size)
		}
		k.size = size
		return nil
	}
}

func WithPalette(p Palette) Option {
	return func(k *Kit) error {
		k.palette = p
		return nil
	}
}

// WithTable replaces the icns tag table. Order is preserved in the container.
func WithTable(table []icns.Entry) Option {
	return func(k *Kit) error {
		if err := icns.ValidateTable(table); err != nil {
			return err
		}
		k.table = slices.Clone(table)
		return nil
	}
}

// WithVerifyThreshold sets the perceptual hash distance tolerated between a
// rendition and the master. A negative value disables verification.
func WithVerifyThreshold(n int) Option {
	return func(k *Kit) error {
		k.verifyThreshold = n
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(k *Kit) error {
		k.logger = logger
		return nil
	}
}

// WithConfig applies the values present in cfg.
func WithConfig(cfg *config.Config) Option {
	return func(k *Kit) error {
		if cfg == nil {
			return nil
		}
		if cfg.Size != nil {
			if err := WithSize(*cfg.Size)(k); err != nil {
				return err
			}
		}
		if cfg.Palette != nil {
			p, err := paletteFromConfig(k.palette, cfg.Palette)
			if err != nil {
				return err
			}
			k.palette = p
		}
		if len(cfg.Icons) > 0 {
			if err := WithTable(cfg.Icons)(k); err != nil {
				return err
			}
		}
		if cfg.VerifyThreshold != nil {
			k.verifyThreshold = *cfg.VerifyThreshold
		}
		return nil
	}
}

func paletteFromConfig(base Palette, pc *config.Palette) (Palette, error) {
	p := base
	for _, f := range []struct {
		name string
		hex  string
		dst  *raster.Color
	}{
		{"top", pc.Top, &p.Top},
		{"bottom", pc.Bottom, &p.Bottom},
		{"ring", pc.Ring, &p.Ring},
		{"patch", pc.Patch, &p.Patch},
		{"patchAccent", pc.PatchAccent, &p.PatchAccent},
		{"sparkle", pc.Sparkle, &p.Sparkle},
	} {
		if f.hex == "" {
			continue
		}
		c, err := raster.ParseHex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// New creates a Kit. Options are applied in order.
func New(opts ...Option) (_ *Kit, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	k := &Kit{
		size:            DefaultSize,
		palette:         DefaultPalette(),
		table:           icns.DefaultTable(),
		verifyThreshold: iconset.DefaultVerifyThreshold,
	}
	for _, opt := range opts {
		if err := opt(k); err != nil {
			return nil, err
		}
	}
	if k.logger == nil {
		k.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return k, nil
}

func (k *Kit) Size() int {
	return k.size
}

func (k *Kit) Palette() Palette {
	return k.palette
}

func (k *Kit) Geometry() Geometry {
	return ScaledGeometry(k.size)
}

// Table returns a copy of the icns tag table.
func (k *Kit) Table() []icns.Entry {
	return slices.Clone(k.table)
}

// Render rasterizes the icon at the configured size.
func (k *Kit) Render() *raster.Buffer {
	k.logger.Info("rendering icon", slog.Int("size", k.size))
	b := Render(k.Geometry(), k.palette)
	k.logger.Info("rendered icon", slog.Int("size", k.size))
	return b
}

// WriteMaster renders the icon and writes it as a PNG to path.
func (k *Kit) WriteMaster(path string) (_ *raster.Buffer, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b := k.Render()
	if err := pngenc.WriteFile(path, b); err != nil {
		k.logger.Error("failed to write master icon", slog.String("path", path), slog.String("error", err.Error()))
		return nil, err
	}
	k.logger.Info("wrote master icon", slog.String("path", path))
	return b, nil
}

// WriteIconset writes every rendition of the table into dir.
func (k *Kit) WriteIconset(ctx context.Context, master image.Image, dir string) (_ []iconset.Rendition, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	renditions, err := iconset.Generate(ctx, master, dir, k.table)
	if err != nil {
		k.logger.Error("failed to generate iconset", slog.String("dir", dir), slog.String("error", err.Error()))
		return nil, err
	}
	for _, r := range renditions {
		k.logger.Info("wrote rendition", slog.String("tag", r.Entry.Tag), slog.Int("pixels", r.Entry.Pixels()), slog.String("path", r.Path))
	}
	if k.verifyThreshold >= 0 {
		mismatches, err := iconset.Verify(master, renditions, k.verifyThreshold)
		if err != nil {
			return nil, err
		}
		for _, m := range mismatches {
			k.logger.Warn("rendition drifted from master", slog.String("tag", m.Tag), slog.Int("distance", m.Distance))
		}
	}
	return renditions, nil
}

// BuildIcns packages the renditions found in dir and writes the container to out.
// Missing renditions are skipped and reported in the returned container.
func (k *Kit) BuildIcns(dir, out string) (_ *icns.Container, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	c, err := icns.Build(dir, k.table)
	if err != nil {
		k.logger.Error("failed to read iconset", slog.String("dir", dir), slog.String("error", err.Error()))
		return nil, err
	}
	for _, comp := range c.Components {
		k.logger.Info("packed component", slog.String("tag", comp.Tag), slog.Int("size", comp.Size()))
	}
	for _, e := range c.Skipped {
		k.logger.Warn("skipped component", slog.String("tag", e.Tag), slog.String("filename", e.Filename))
	}
	if err := icns.WriteFile(out, c); err != nil {
		return nil, err
	}
	k.logger.Info("wrote icns", slog.String("path", out), slog.Int("total_size", c.TotalSize()))
	return c, nil
}

// Result describes the files produced by Build.
type Result struct {
	MasterPath string
	IconsetDir string
	IcnsPath   string
	Container  *icns.Container
}

// Build renders the master, writes the iconset and packages it into outDir.
func (k *Kit) Build(ctx context.Context, outDir string) (_ *Result, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}
	res := &Result{
		MasterPath: filepath.Join(outDir, MasterFilename(k.size)),
		IconsetDir: filepath.Join(outDir, IconsetDirname),
		IcnsPath:   filepath.Join(outDir, ContainerFilename),
	}
	master, err := k.WriteMaster(res.MasterPath)
	if err != nil {
		return nil, err
	}
	if _, err := k.WriteIconset(ctx, master, res.IconsetDir); err != nil {
		return nil, err
	}
	c, err := k.BuildIcns(res.IconsetDir, res.IcnsPath)
	if err != nil {
		return nil, err
	}
	res.Container = c
	k.logger.Info("build completed", slog.String("path", res.IcnsPath))
	return res, nil
}
