// Package icns packages PNG renditions into an Apple icon container.
//
// A container is the ASCII magic "icns" followed by a big-endian uint32 total
// length, then one record per component: a four-byte tag, a big-endian uint32
// record length and the payload. Both length fields include their own 8-byte
// prefix.
package icns

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/k1LoW/errors"
)

const (
	magic      = "icns"
	headerSize = 8
)

// Component is one tagged record of a container. Data is opaque.
type Component struct {
	Tag  string
	Data []byte
}

// Size returns the self-inclusive record length.
func (c Component) Size() int {
	return headerSize + len(c.Data)
}

// Container holds the components present in table order.
type Container struct {
	Components []Component
	// Skipped lists table entries whose source file did not exist.
	Skipped []Entry
}

// TotalSize returns the self-inclusive container length.
func (c *Container) TotalSize() int {
	total := headerSize
	for _, comp := range c.Components {
		total += comp.Size()
	}
	return total
}

// Build reads dir/Filename for every table entry in order. Missing files are
// skipped and recorded in Skipped; other filesystem errors, including a
// missing dir, are returned.
func Build(dir string, table []Entry) (_ *Container, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read iconset directory %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("failed to read iconset directory %s: not a directory", dir)
	}
	c := &Container{}
	for _, e := range table {
		if len(e.Tag) != 4 {
			return nil, fmt.Errorf("invalid icns tag %q: must be 4 bytes", e.Tag)
		}
		p := filepath.Join(dir, e.Filename)
		b, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				c.Skipped = append(c.Skipped, e)
				continue
			}
			return nil, fmt.Errorf("failed to read icon component %s: %w", p, err)
		}
		c.Components = append(c.Components, Component{Tag: e.Tag, Data: b})
	}
	return c, nil
}

// WriteTo serializes the container to w.
func (c *Container) WriteTo(w io.Writer) (_ int64, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var written int64
	write := func(b []byte) error {
		n, err := w.Write(b)
		written += int64(n)
		return err
	}
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(c.TotalSize()))
	if err := write([]byte(magic)); err != nil {
		return written, err
	}
	if err := write(u32[:]); err != nil {
		return written, err
	}
	for _, comp := range c.Components {
		binary.BigEndian.PutUint32(u32[:], uint32(comp.Size()))
		if err := write([]byte(comp.Tag)); err != nil {
			return written, err
		}
		if err := write(u32[:]); err != nil {
			return written, err
		}
		if err := write(comp.Data); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Bytes returns the serialized container.
func (c *Container) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, c.TotalSize()))
	_, _ = c.WriteTo(buf)
	return buf.Bytes()
}

// WriteFile writes the serialized container to path.
func WriteFile(path string, c *Container) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := os.WriteFile(path, c.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write icns %s: %w", path, err)
	}
	return nil
}

// Parse decodes a serialized container. Payloads alias b.
func Parse(b []byte) (_ *Container, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if len(b) < headerSize || string(b[:4]) != magic {
		return nil, ErrNotIcns
	}
	total := binary.BigEndian.Uint32(b[4:8])
	if int64(total) != int64(len(b)) {
		return nil, fmt.Errorf("%w: header says %d, got %d bytes", ErrSizeMismatch, total, len(b))
	}
	c := &Container{}
	p := b[headerSize:]
	for len(p) > 0 {
		if len(p) < headerSize {
			return nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedRecord, len(p))
		}
		tag := string(p[:4])
		size := binary.BigEndian.Uint32(p[4:8])
		if size < headerSize || int64(size) > int64(len(p)) {
			return nil, fmt.Errorf("%w: %s claims %d bytes, %d available", ErrTruncatedRecord, tag, size, len(p))
		}
		c.Components = append(c.Components, Component{Tag: tag, Data: p[headerSize:size]})
		p = p[size:]
	}
	return c, nil
}

// Describe renders a human readable listing of the container.
func (c *Container) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  total=%d components=%d\n", magic, c.TotalSize(), len(c.Components))
	for _, comp := range c.Components {
		fmt.Fprintf(&sb, "%s  size=%d\n", comp.Tag, comp.Size())
	}
	for _, e := range c.Skipped {
		fmt.Fprintf(&sb, "skip  %s  %s\n", e.Tag, e.Filename)
	}
	return sb.String()
}

// Tags returns the component tags in order.
func (c *Container) Tags() []string {
	tags := make([]string, 0, len(c.Components))
	for _, comp := range c.Components {
		tags = append(tags, comp.Tag)
	}
	return tags
}
