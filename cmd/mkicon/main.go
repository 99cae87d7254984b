// mkicon writes a solid-color square master image for trying out the
// generate pipeline.
// Usage: go run ./cmd/mkicon <output.png> [--size N] [--color #RRGGBB]
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strconv"
	"strings"

	"github.com/Mavwarf/appicon/internal/catalog"
	"github.com/Mavwarf/appicon/internal/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Usage: mkicon <output.png> [--size N] [--color #RRGGBB]\n")
		os.Exit(1)
	}
}

func run(args []string) error {
	size := catalog.MasterSize
	fill := color.NRGBA{0x00, 0x7A, 0xFF, 0xFF}
	var out string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--size", "-s":
			if i+1 >= len(args) {
				return fmt.Errorf("--size requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n <= 0 {
				return fmt.Errorf("size must be a positive number")
			}
			size = n
			i++
		case "--color":
			if i+1 >= len(args) {
				return fmt.Errorf("--color requires a value")
			}
			c, err := parseHex(args[i+1])
			if err != nil {
				return err
			}
			fill = c
			i++
		default:
			if out != "" {
				return fmt.Errorf("unexpected argument %q", args[i])
			}
			out = args[i]
		}
	}
	if out == "" {
		return fmt.Errorf("missing output path")
	}
	return render.WritePNG(out, solid(size, fill))
}

func solid(size int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// parseHex parses "#RRGGBB" or "RRGGBB" into an opaque color.
func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q must be #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q must be #RRGGBB", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
