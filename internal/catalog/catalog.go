package catalog

import (
	"fmt"
	"sort"
)

// MasterSize is the edge length every source image is normalized to
// before per-size rendering.
const MasterSize = 1024

// Idiom is the asset-catalog device classification of an icon.
type Idiom string

const (
	IdiomUniversal Idiom = "universal"
	IdiomMac       Idiom = "mac"
	IdiomIPhone    Idiom = "iphone"
	IdiomIPad      Idiom = "ipad"
)

// Scale is the display scale factor an icon is drawn at. The empty
// Scale means "single size" and is omitted from the manifest.
type Scale string

const (
	ScaleNone Scale = ""
	Scale1x   Scale = "1x"
	Scale2x   Scale = "2x"
	Scale3x   Scale = "3x"
)

// IconSpec describes one required icon. Name is unique within a
// Catalog; Label is free text shown in progress output.
type IconSpec struct {
	Name      string
	Width     int
	Height    int
	Label     string
	Idiom     Idiom
	Scale     Scale
	PointSize string // nominal edge in points, e.g. "60" or "83.5"
}

// Dimension is a rendered pixel size.
type Dimension struct {
	Width  int
	Height int
}

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Dimension returns the pixel size of the icon.
func (s IconSpec) Dimension() Dimension {
	return Dimension{Width: s.Width, Height: s.Height}
}

// Catalog is an immutable ordered set of icon specs.
type Catalog struct {
	specs []IconSpec
}

// New builds a Catalog from specs after validating them. The slice is
// copied, so later changes by the caller don't leak in.
func New(specs []IconSpec) (Catalog, error) {
	c := Catalog{specs: append([]IconSpec(nil), specs...)}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func mustNew(specs []IconSpec) Catalog {
	c, err := New(specs)
	if err != nil {
		panic(err)
	}
	return c
}

// AppIcon is the iOS/macOS app icon catalog.
var AppIcon = mustNew([]IconSpec{
	// iPhone
	{"iphone_60x60_2x", 120, 120, "iPhone @2x", IdiomIPhone, Scale2x, "60"},
	{"iphone_60x60_3x", 180, 180, "iPhone @3x", IdiomIPhone, Scale3x, "60"},

	// iPad
	{"ipad_76x76_1x", 76, 76, "iPad @1x", IdiomIPad, Scale1x, "76"},
	{"ipad_76x76_2x", 152, 152, "iPad @2x", IdiomIPad, Scale2x, "76"},
	{"ipad_83.5x83.5_2x", 167, 167, "iPad Pro @2x", IdiomIPad, Scale2x, "83.5"},

	// App Store
	{"app_store_1024x1024", 1024, 1024, "App Store", IdiomUniversal, ScaleNone, "1024"},

	// macOS
	{"mac_16x16_1x", 16, 16, "Mac 16pt @1x", IdiomMac, Scale1x, "16"},
	{"mac_16x16_2x", 32, 32, "Mac 16pt @2x", IdiomMac, Scale2x, "16"},
	{"mac_32x32_1x", 32, 32, "Mac 32pt @1x", IdiomMac, Scale1x, "32"},
	{"mac_32x32_2x", 64, 64, "Mac 32pt @2x", IdiomMac, Scale2x, "32"},
	{"mac_128x128_1x", 128, 128, "Mac 128pt @1x", IdiomMac, Scale1x, "128"},
	{"mac_128x128_2x", 256, 256, "Mac 128pt @2x", IdiomMac, Scale2x, "128"},
	{"mac_256x256_1x", 256, 256, "Mac 256pt @1x", IdiomMac, Scale1x, "256"},
	{"mac_256x256_2x", 512, 512, "Mac 256pt @2x", IdiomMac, Scale2x, "256"},
	{"mac_512x512_1x", 512, 512, "Mac 512pt @1x", IdiomMac, Scale1x, "512"},
	{"mac_512x512_2x", 1024, 1024, "Mac 512pt @2x", IdiomMac, Scale2x, "512"},
})

// Validate checks that every spec is square with a positive edge and
// that names are unique.
func (c Catalog) Validate() error {
	if len(c.specs) == 0 {
		return fmt.Errorf("catalog: no icon specs")
	}
	seen := make(map[string]bool, len(c.specs))
	for _, s := range c.specs {
		if s.Name == "" {
			return fmt.Errorf("catalog: spec with empty name")
		}
		if seen[s.Name] {
			return fmt.Errorf("catalog: duplicate spec %q", s.Name)
		}
		seen[s.Name] = true
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("catalog: %s: non-positive size %dx%d", s.Name, s.Width, s.Height)
		}
		if s.Width != s.Height {
			return fmt.Errorf("catalog: %s: not square (%dx%d)", s.Name, s.Width, s.Height)
		}
	}
	return nil
}

// Specs returns a copy of the catalog's specs in definition order.
func (c Catalog) Specs() []IconSpec {
	return append([]IconSpec(nil), c.specs...)
}

// Len returns the number of specs.
func (c Catalog) Len() int {
	return len(c.specs)
}

// Lookup returns the spec with the given name.
func (c Catalog) Lookup(name string) (IconSpec, bool) {
	for _, s := range c.specs {
		if s.Name == name {
			return s, true
		}
	}
	return IconSpec{}, false
}

// RequiredDimensions returns the distinct pixel sizes that must be
// rendered, smallest first. Several specs may share one size (the 32px
// file serves both Mac 16pt @2x and Mac 32pt @1x).
func (c Catalog) RequiredDimensions() []Dimension {
	seen := make(map[Dimension]bool, len(c.specs))
	dims := make([]Dimension, 0, len(c.specs))
	for _, s := range c.specs {
		d := s.Dimension()
		if seen[d] {
			continue
		}
		seen[d] = true
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i].Width < dims[j].Width })
	return dims
}

// LabelsFor returns the labels of every spec rendered at d, in
// catalog order.
func (c Catalog) LabelsFor(d Dimension) []string {
	var labels []string
	for _, s := range c.specs {
		if s.Dimension() == d {
			labels = append(labels, s.Label)
		}
	}
	return labels
}

// Filename returns the output file name for d, "{prefix}_{W}x{H}.png".
func Filename(prefix string, d Dimension) string {
	return fmt.Sprintf("%s_%s.png", prefix, d)
}
