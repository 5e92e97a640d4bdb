package icns

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tenntenn/golden"
)

const fixtureDir = "testdata/iconset"

// copyFixtures copies the fixture iconset into a temp dir, leaving out the given files.
func copyFixtures(t *testing.T, exclude ...string) string {
	t.Helper()
	dir := t.TempDir()
	skip := map[string]bool{}
	for _, f := range exclude {
		skip[f] = true
	}
	for _, e := range DefaultTable() {
		if skip[e.Filename] {
			continue
		}
		b, err := os.ReadFile(filepath.Join(fixtureDir, e.Filename))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, e.Filename), b, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func fixtureSizes(t *testing.T) map[string]int {
	t.Helper()
	sizes := map[string]int{}
	for _, e := range DefaultTable() {
		fi, err := os.Stat(filepath.Join(fixtureDir, e.Filename))
		if err != nil {
			t.Fatal(err)
		}
		sizes[e.Tag] = int(fi.Size())
	}
	return sizes
}

func TestBuildAllPresent(t *testing.T) {
	c, err := Build(fixtureDir, DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	want := 8
	for _, n := range fixtureSizes(t) {
		want += 8 + n
	}
	b := c.Bytes()
	if len(b) != want {
		t.Errorf("len = %d, want %d", len(b), want)
	}
	if string(b[:4]) != "icns" {
		t.Errorf("magic = %q, want icns", b[:4])
	}
	if got := binary.BigEndian.Uint32(b[4:8]); int(got) != want {
		t.Errorf("header total = %d, want %d", got, want)
	}
	if len(c.Skipped) != 0 {
		t.Errorf("skipped = %v, want none", c.Skipped)
	}
	wantTags := []string{"icp4", "icp5", "icp6", "ic07", "ic08", "ic09", "ic10"}
	if diff := cmp.Diff(wantTags, c.Tags()); diff != "" {
		t.Errorf("tag order mismatch (-want +got):\n%s", diff)
	}

	got := []byte(c.Describe())
	if os.Getenv("UPDATE_GOLDEN") != "" {
		golden.Update(t, "testdata", "full", got)
		return
	}
	if diff := golden.Diff(t, "testdata", "full", got); diff != "" {
		t.Error(diff)
	}
}

func TestBuildRecordLayout(t *testing.T) {
	c, err := Build(fixtureDir, DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	b := c.Bytes()
	p := b[8:]
	for _, e := range DefaultTable() {
		want, err := os.ReadFile(filepath.Join(fixtureDir, e.Filename))
		if err != nil {
			t.Fatal(err)
		}
		if string(p[:4]) != e.Tag {
			t.Fatalf("record tag = %q, want %q", p[:4], e.Tag)
		}
		size := int(binary.BigEndian.Uint32(p[4:8]))
		if size != 8+len(want) {
			t.Errorf("%s: record size = %d, want %d (self-inclusive)", e.Tag, size, 8+len(want))
		}
		if !bytes.Equal(p[8:size], want) {
			t.Errorf("%s: payload differs from source file", e.Tag)
		}
		p = p[size:]
	}
	if len(p) != 0 {
		t.Errorf("%d trailing bytes", len(p))
	}
}

func TestBuildMissingComponent(t *testing.T) {
	dir := copyFixtures(t, "icon_256x256.png")
	c, err := Build(dir, DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Components) != 6 {
		t.Fatalf("components = %d, want 6", len(c.Components))
	}
	for _, comp := range c.Components {
		if comp.Tag == "ic08" {
			t.Error("ic08 present although its source is missing")
		}
	}
	parsed, err := Parse(c.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Components) != 6 {
		t.Errorf("serialized records = %d, want 6", len(parsed.Components))
	}
	if diff := cmp.Diff([]Entry{DefaultTable()[4]}, c.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}

	got := []byte(c.Describe())
	if os.Getenv("UPDATE_GOLDEN") != "" {
		golden.Update(t, "testdata", "missing_ic08", got)
		return
	}
	if diff := golden.Diff(t, "testdata", "missing_ic08", got); diff != "" {
		t.Error(diff)
	}
}

func TestBuildEmptyDir(t *testing.T) {
	c, err := Build(t.TempDir(), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{'i', 'c', 'n', 's', 0, 0, 0, 8}, c.Bytes()); diff != "" {
		t.Errorf("empty container mismatch (-want +got):\n%s", diff)
	}
	if len(c.Skipped) != len(DefaultTable()) {
		t.Errorf("skipped = %d, want %d", len(c.Skipped), len(DefaultTable()))
	}
}

func TestBuildMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nope")
	c, err := Build(dir, DefaultTable())
	if err == nil {
		t.Fatalf("expected error for missing directory, got container %v", c.Bytes())
	}
	if !bytes.Contains([]byte(err.Error()), []byte(dir)) {
		t.Errorf("error does not name the directory: %v", err)
	}
}

func TestBuildDirIsFile(t *testing.T) {
	p := filepath.Join(fixtureDir, "icon_16x16.png")
	if _, err := Build(p, DefaultTable()); err == nil {
		t.Error("expected error when the source is a file")
	}
}

func TestBuildReadError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory-as-file read errors differ on windows")
	}
	dir := copyFixtures(t, "icon_16x16.png")
	// a directory in place of the file is not a missing file
	if err := os.Mkdir(filepath.Join(dir, "icon_16x16.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Build(dir, DefaultTable()); err == nil {
		t.Error("expected read error to propagate")
	}
}

func TestBuildInvalidTag(t *testing.T) {
	if _, err := Build(fixtureDir, []Entry{{Tag: "ic1", Filename: "icon_16x16.png", Points: 16}}); err == nil {
		t.Error("expected error for a 3-byte tag")
	}
}

func TestParse(t *testing.T) {
	c, err := Build(fixtureDir, DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	b := c.Bytes()
	parsed, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c.Components, parsed.Components); diff != "" {
		t.Errorf("parsed components mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrNotIcns},
		{"bad magic", append([]byte("icnz"), b[4:]...), ErrNotIcns},
		{"short total", b[:len(b)-1], ErrSizeMismatch},
		{"truncated record", func() []byte {
			bb := bytes.Clone(b[:8+8+5])
			binary.BigEndian.PutUint32(bb[4:8], uint32(len(bb)))
			return bb
		}(), ErrTruncatedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	c, err := Build(fixtureDir, DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "AppIcon.icns")
	if err := WriteFile(path, c); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, c.Bytes()) {
		t.Error("written file differs from Bytes()")
	}
}

func TestValidateTable(t *testing.T) {
	tests := []struct {
		name    string
		table   []Entry
		wantErr bool
	}{
		{"default", DefaultTable(), false},
		{"short tag", []Entry{{Tag: "ic", Filename: "a.png", Points: 1}}, true},
		{"no filename", []Entry{{Tag: "ic07", Points: 128}}, true},
		{"no points", []Entry{{Tag: "ic07", Filename: "a.png"}}, true},
		{"duplicate", []Entry{{Tag: "ic07", Filename: "a.png", Points: 1}, {Tag: "ic07", Filename: "b.png", Points: 2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateTable(tt.table); (err != nil) != tt.wantErr {
				t.Errorf("ValidateTable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryPixels(t *testing.T) {
	want := map[string]int{"icp4": 16, "icp5": 32, "icp6": 64, "ic07": 128, "ic08": 256, "ic09": 512, "ic10": 1024}
	for _, e := range DefaultTable() {
		if got := e.Pixels(); got != want[e.Tag] {
			t.Errorf("%s: Pixels() = %d, want %d", e.Tag, got, want[e.Tag])
		}
	}
}
