package icns

import "fmt"

// Entry maps a four-character icns tag to the iconset file providing its payload.
type Entry struct {
	Tag      string `yaml:"tag" json:"tag"`
	Filename string `yaml:"filename" json:"filename"`
	Points   int    `yaml:"points" json:"points"`          // logical size
	Scale    int    `yaml:"scale,omitempty" json:"scale"` // 2 for @2x renditions
}

// Pixels returns the physical edge length of the rendition.
func (e Entry) Pixels() int {
	if e.Scale <= 1 {
		return e.Points
	}
	return e.Points * e.Scale
}

func (e Entry) Validate() error {
	if len(e.Tag) != 4 {
		return fmt.Errorf("invalid icns tag %q: must be 4 bytes", e.Tag)
	}
	if e.Filename == "" {
		return fmt.Errorf("icns tag %s: filename is empty", e.Tag)
	}
	if e.Points <= 0 {
		return fmt.Errorf("icns tag %s: points must be positive, got %d", e.Tag, e.Points)
	}
	return nil
}

// DefaultTable returns the standard macOS iconset layout in container order.
func DefaultTable() []Entry {
	return []Entry{
		{Tag: "icp4", Filename: "icon_16x16.png", Points: 16, Scale: 1},
		{Tag: "icp5", Filename: "icon_32x32.png", Points: 32, Scale: 1},
		{Tag: "icp6", Filename: "icon_32x32@2x.png", Points: 32, Scale: 2},
		{Tag: "ic07", Filename: "icon_128x128.png", Points: 128, Scale: 1},
		{Tag: "ic08", Filename: "icon_256x256.png", Points: 256, Scale: 1},
		{Tag: "ic09", Filename: "icon_512x512.png", Points: 512, Scale: 1},
		{Tag: "ic10", Filename: "icon_512x512@2x.png", Points: 512, Scale: 2},
	}
}

// ValidateTable checks every entry and rejects duplicate tags.
func ValidateTable(table []Entry) error {
	seen := map[string]struct{}{}
	for _, e := range table {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, ok := seen[e.Tag]; ok {
			return fmt.Errorf("duplicate icns tag %s", e.Tag)
		}
		seen[e.Tag] = struct{}{}
	}
	return nil
}
