package main

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/Mavwarf/appicon/internal/render"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#007AFF", color.NRGBA{0x00, 0x7A, 0xFF, 0xFF}, true},
		{"ffffff", color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"#fff", color.NRGBA{}, false},
		{"#zzzzzz", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := parseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseHex(%q) err = %v, want ok=%t", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRunWritesMaster(t *testing.T) {
	out := filepath.Join(t.TempDir(), "master.png")
	if err := run([]string{out, "--size", "64", "--color", "#ffffff"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	img, format, err := render.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" || img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("got %s %v", format, img.Bounds())
	}
	c := color.NRGBAModel.Convert(img.At(10, 10)).(color.NRGBA)
	if c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want white", c)
	}
}

func TestRunErrors(t *testing.T) {
	for _, args := range [][]string{{}, {"a.png", "b.png"}, {"a.png", "--size", "0"}, {"a.png", "--color"}} {
		if err := run(args); err == nil {
			t.Errorf("run(%q): expected error", args)
		}
	}
}
