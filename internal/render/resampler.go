package render

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// DefaultResampler is used when none is configured.
const DefaultResampler = "lanczos"

// Resampler scales an image to an exact pixel size.
type Resampler interface {
	Name() string
	Resize(img image.Image, width, height int) image.Image
}

// lanczos uses nfnt/resize's Lanczos3 filter, the closest match to the
// LANCZOS filter icon tooling usually defaults to.
type lanczos struct{}

func (lanczos) Name() string { return "lanczos" }

func (lanczos) Resize(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}

// kernel wraps one of the x/image/draw interpolators.
type kernel struct {
	name   string
	scaler draw.Scaler
}

func (k kernel) Name() string { return k.name }

func (k kernel) Resize(img image.Image, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	k.scaler.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return dst
}

var resamplers = map[string]Resampler{
	"lanczos":    lanczos{},
	"catmullrom": kernel{"catmullrom", draw.CatmullRom},
	"bilinear":   kernel{"bilinear", draw.BiLinear},
	"nearest":    kernel{"nearest", draw.NearestNeighbor},
}

// ParseResampler returns the resampler with the given name. The empty
// name selects DefaultResampler.
func ParseResampler(name string) (Resampler, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultResampler
	}
	r, ok := resamplers[name]
	if !ok {
		return nil, fmt.Errorf("unknown resampler %q (want one of %s)", name, strings.Join(ResamplerNames(), ", "))
	}
	return r, nil
}

// ResamplerNames lists the accepted resampler names, sorted.
func ResamplerNames() []string {
	names := make([]string, 0, len(resamplers))
	for n := range resamplers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
