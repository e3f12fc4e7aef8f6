package render

import (
	"errors"
	"testing"

	errs "github.com/matzehuels/casperflow/pkg/errors"
)

func TestConvertWithoutRsvg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	tests := []struct {
		name string
		fn   func() ([]byte, error)
	}{
		{"pdf", func() ([]byte, error) { return ToPDF(svg) }},
		{"png", func() ([]byte, error) { return ToPNG(svg, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			if !errors.Is(err, ErrNoConverter) {
				t.Fatalf("err = %v, want ErrNoConverter", err)
			}
			if !errs.Is(err, errs.ErrCodeUnsupported) {
				t.Errorf("err code = %q, want UNSUPPORTED", errs.GetCode(err))
			}
		})
	}
}
