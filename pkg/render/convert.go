package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strconv"

	"github.com/matzehuels/nodedesign/pkg/errors"
)

// Output formats understood by the preview commands.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// Formats lists every output format in display order.
var Formats = []string{FormatSVG, FormatPDF, FormatPNG, FormatDOT}

// Converter is the librsvg binary used for PDF and PNG output.
var Converter = "rsvg-convert"

// ValidFormat reports whether f is one of Formats.
func ValidFormat(f string) bool { return slices.Contains(Formats, f) }

// Convert produces one output format from a rendered preview. DOT and SVG
// pass through; PDF and PNG go through Converter.
func Convert(ctx context.Context, format, dot string, svg []byte, scale float64) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return svg, nil
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		return ToPNG(ctx, svg, scale)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", format)
}

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, FormatPDF)
}

// ToPNG converts SVG bytes to PNG. A scale of 2 doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, FormatPNG, "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	bin, err := exec.LookPath(Converter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInternal,
			"%s export requires librsvg (brew install librsvg, apt install librsvg2-bin): %s not found", format, Converter)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", Converter, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
