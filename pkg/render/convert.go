package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"

	errs "github.com/matzehuels/casperflow/pkg/errors"
)

// ErrNoConverter is returned when rsvg-convert is not on PATH. It carries
// the UNSUPPORTED code.
var ErrNoConverter = errs.New(errs.ErrCodeUnsupported, "rsvg-convert not found (install librsvg)")

// ToPDF converts SVG bytes to PDF with rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "-f", "pdf")
}

// ToPNG converts SVG bytes to PNG with rsvg-convert. scale multiplies the
// SVG's intrinsic size; values <= 0 mean 1.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64))
}

func convert(svg []byte, args ...string) ([]byte, error) {
	bin, err := exec.LookPath("rsvg-convert")
	if err != nil {
		return nil, ErrNoConverter
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
