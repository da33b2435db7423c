package render

import (
	"context"
	"testing"

	"github.com/matzehuels/nodedesign/pkg/errors"
)

func TestConvertPassThrough(t *testing.T) {
	svg := []byte("<svg/>")
	tests := []struct {
		format, want string
	}{
		{FormatDOT, "digraph {}"},
		{FormatSVG, "<svg/>"},
	}
	for _, tt := range tests {
		got, err := Convert(context.Background(), tt.format, "digraph {}", svg, 1)
		if err != nil {
			t.Fatalf("Convert(%s) error: %v", tt.format, err)
		}
		if string(got) != tt.want {
			t.Errorf("Convert(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestConvertUnknownFormat(t *testing.T) {
	_, err := Convert(context.Background(), "gif", "", nil, 1)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Convert(gif) error = %v, want INVALID_INPUT", err)
	}
}

func TestConvertMissingConverter(t *testing.T) {
	prev := Converter
	Converter = "nodedesign-no-such-binary"
	t.Cleanup(func() { Converter = prev })

	for _, format := range []string{FormatPDF, FormatPNG} {
		_, err := Convert(context.Background(), format, "", []byte("<svg/>"), 2)
		if !errors.Is(err, errors.ErrCodeInternal) {
			t.Errorf("Convert(%s) error = %v, want INTERNAL_ERROR", format, err)
		}
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range Formats {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("SVG") {
		t.Error("ValidFormat is case-sensitive")
	}
}
