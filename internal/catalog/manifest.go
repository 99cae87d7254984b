package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ManifestFileName is the asset-catalog descriptor Xcode reads.
const ManifestFileName = "Contents.json"

// ManifestEntry maps one file to the display context it serves.
type ManifestEntry struct {
	Filename string `json:"filename"`
	Idiom    Idiom  `json:"idiom"`
	Platform string `json:"platform,omitempty"` // "ios" for the universal entry
	Scale    Scale  `json:"scale,omitempty"`
	Size     string `json:"size"` // point size "{W}x{H}"
}

// ManifestInfo is the "info" block of Contents.json.
type ManifestInfo struct {
	Author  string `json:"author"`
	Version int    `json:"version"`
}

// Manifest is the decoded form of Contents.json.
type Manifest struct {
	Images []ManifestEntry `json:"images"`
	Info   ManifestInfo    `json:"info"`
}

// ManifestOptions tunes which specs are listed.
type ManifestOptions struct {
	// DeviceIdioms also lists the iphone/ipad specs, for asset catalogs
	// that predate single-size app icons.
	DeviceIdioms bool
}

// BuildManifest returns the manifest for files written with prefix:
// the universal iOS entry followed by every mac entry.
func (c Catalog) BuildManifest(prefix string) Manifest {
	return c.BuildManifestWith(prefix, ManifestOptions{})
}

// BuildManifestWith is BuildManifest with options. The result depends
// only on the catalog, prefix and opts.
func (c Catalog) BuildManifestWith(prefix string, opts ManifestOptions) Manifest {
	m := Manifest{
		Images: []ManifestEntry{},
		Info:   ManifestInfo{Author: "xcode", Version: 1},
	}

	add := func(s IconSpec) {
		e := ManifestEntry{
			Filename: Filename(prefix, s.Dimension()),
			Idiom:    s.Idiom,
			Scale:    s.Scale,
			Size:     s.PointSize + "x" + s.PointSize,
		}
		if s.Idiom == IdiomUniversal {
			e.Platform = "ios"
		}
		m.Images = append(m.Images, e)
	}

	// Universal first, then mac, then (optionally) devices; catalog
	// order within each group.
	for _, s := range c.specs {
		if s.Idiom == IdiomUniversal {
			add(s)
		}
	}
	for _, s := range c.specs {
		if s.Idiom == IdiomMac {
			add(s)
		}
	}
	if opts.DeviceIdioms {
		for _, s := range c.specs {
			if s.Idiom == IdiomIPhone || s.Idiom == IdiomIPad {
				add(s)
			}
		}
	}
	return m
}

// Filenames returns the distinct file names referenced by m, in first
// appearance order.
func (m Manifest) Filenames() []string {
	seen := map[string]bool{}
	var names []string
	for _, e := range m.Images {
		if !seen[e.Filename] {
			seen[e.Filename] = true
			names = append(names, e.Filename)
		}
	}
	return names
}

// Marshal encodes m as UTF-8 JSON with 2-space indentation and a
// trailing newline.
func (m Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseManifest decodes Contents.json data.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// PixelSize returns the pixel edge an entry's file must have: the
// point size times the scale factor. Fractional point sizes round to
// the nearest pixel (83.5pt @2x = 167px).
func (e ManifestEntry) PixelSize() (int, error) {
	ws, hs, ok := strings.Cut(e.Size, "x")
	if !ok {
		return 0, fmt.Errorf("entry %s: bad size %q", e.Filename, e.Size)
	}
	w, errW := strconv.ParseFloat(ws, 64)
	h, errH := strconv.ParseFloat(hs, 64)
	if errW != nil || errH != nil || w <= 0 {
		return 0, fmt.Errorf("entry %s: bad size %q", e.Filename, e.Size)
	}
	if w != h {
		return 0, fmt.Errorf("entry %s: not square (%s)", e.Filename, e.Size)
	}
	factor := 1.0
	switch e.Scale {
	case ScaleNone, Scale1x:
	case Scale2x:
		factor = 2
	case Scale3x:
		factor = 3
	default:
		return 0, fmt.Errorf("entry %s: unknown scale %q", e.Filename, e.Scale)
	}
	return int(w*factor + 0.5), nil
}
