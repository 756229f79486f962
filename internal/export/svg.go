package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/shader"
)

type point struct{ X, Y float64 }

type segment struct{ A, B point }

// ContourSVG traces the elevation field at every multiple of the contour
// spacing with marching squares and draws minor and major lines in their
// configured colours. field is row-major, width×height, NaN where the
// terrain is not visible.
func ContourSVG(field []float64, width, height int, cfg config.Render) string {
	minor, major := Contours(field, width, height, cfg.ContourSpacing, cfg.MajorLineMultiplier)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height))
	if !cfg.Transparent {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
`, rgb(cfg.BackgroundColor)))
	}

	w := cfg.ContourLineWidth * shader.LineScale
	writePath(&sb, minor, rgb(cfg.ContourColor), w)
	writePath(&sb, major, rgb(cfg.ContourMajorColor), w*cfg.MajorLineWidthMultiplier)

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, segs []segment, stroke string, width float64) {
	if len(segs) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.2f" d="`, stroke, width))
	for i, s := range segs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f", s.A.X, s.A.Y, s.B.X, s.B.Y))
	}
	sb.WriteString(`"/>
`)
}

func rgb(c config.Color) string {
	r, g, b, _ := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Contours returns the iso-line segments of field split into minor and
// major lines. Cells touching a NaN sample are skipped.
func Contours(field []float64, width, height int, spacing float64, majorEvery int) (minor, major []segment) {
	if spacing <= 0 || width < 2 || height < 2 {
		return nil, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range field {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return nil, nil
	}

	for k := math.Ceil(lo / spacing); k*spacing <= hi; k++ {
		segs := isoline(field, width, height, k*spacing)
		if shader.IsMajor(k, float64(majorEvery)) {
			major = append(major, segs...)
		} else {
			minor = append(minor, segs...)
		}
	}
	return minor, major
}

// isoline runs marching squares for one level. Saddle cells are resolved
// with the cell centre average.
func isoline(field []float64, width, height int, level float64) []segment {
	var out []segment
	for y := 0; y+1 < height; y++ {
		for x := 0; x+1 < width; x++ {
			v := [4]float64{
				field[y*width+x],       // top-left
				field[y*width+x+1],     // top-right
				field[(y+1)*width+x+1], // bottom-right
				field[(y+1)*width+x],   // bottom-left
			}
			if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2]) || math.IsNaN(v[3]) {
				continue
			}
			corners := [4]point{
				{float64(x), float64(y)},
				{float64(x + 1), float64(y)},
				{float64(x + 1), float64(y + 1)},
				{float64(x), float64(y + 1)},
			}

			var hits []point
			for e := 0; e < 4; e++ {
				a, b := v[e], v[(e+1)%4]
				if (a < level) == (b < level) {
					continue
				}
				t := (level - a) / (b - a)
				pa, pb := corners[e], corners[(e+1)%4]
				hits = append(hits, point{pa.X + t*(pb.X-pa.X), pa.Y + t*(pb.Y-pa.Y)})
			}

			switch len(hits) {
			case 2:
				out = append(out, segment{hits[0], hits[1]})
			case 4:
				// Hits are on edges 0..3 in order. The centre decides which
				// pairs of adjacent edges connect.
				centre := (v[0] + v[1] + v[2] + v[3]) / 4
				if (centre < level) == (v[0] < level) {
					out = append(out, segment{hits[0], hits[1]}, segment{hits[2], hits[3]})
				} else {
					out = append(out, segment{hits[3], hits[0]}, segment{hits[1], hits[2]})
				}
			}
		}
	}
	return out
}

// TraceToSVG plots a sampled series as a polyline scaled to width×height.
func TraceToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	// Add padding
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/span*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
