package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// OpKind is the shape drawn by one display-list entry.
type OpKind string

const (
	OpRect   OpKind = "rect"
	OpCircle OpKind = "circle"
	OpLine   OpKind = "line"
	OpText   OpKind = "text"
)

// Layer tags an op with the pass that produced it.
type Layer string

const (
	LayerBackground Layer = "background"
	LayerGrid       Layer = "grid"
	LayerElements   Layer = "elements"
	LayerEntrance   Layer = "entrance"
	LayerSeats      Layer = "seats"
	LayerBox        Layer = "box"
	LayerLegend     Layer = "legend"
	LayerOverlay    Layer = "overlay"
)

// Op is one drawing instruction in device pixels.
//
// Rect uses X, Y, W, H and the corner radius RX; Circle uses X, Y as centre
// and R; Line runs from X, Y to X2, Y2; Text is anchored at X, Y.
type Op struct {
	Kind        OpKind    `json:"kind"`
	Layer       Layer     `json:"layer"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	X2          float64   `json:"x2,omitempty"`
	Y2          float64   `json:"y2,omitempty"`
	W           float64   `json:"w,omitempty"`
	H           float64   `json:"h,omitempty"`
	R           float64   `json:"r,omitempty"`
	RX          float64   `json:"rx,omitempty"`
	Rotate      float64   `json:"rotate,omitempty"` // degrees about the shape centre
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	Anchor      string    `json:"anchor,omitempty"` // start, middle or end
	SeatID      string    `json:"seatId,omitempty"`
}

// Frame is a complete redraw of the canvas.  Width and Height are in device
// pixels; Ratio is the device pixel ratio they were produced with.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
	Ops    []Op    `json:"ops"`
}

func (f *Frame) add(op Op) { f.Ops = append(f.Ops, op) }

// Count returns the number of ops on a layer.
func (f Frame) Count(l Layer) int {
	n := 0
	for _, op := range f.Ops {
		if op.Layer == l {
			n++
		}
	}
	return n
}

// SVG encodes the frame as a standalone SVG document.
func (f Frame) SVG() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(f.Width), formatFloat(f.Height), formatFloat(f.Width), formatFloat(f.Height)))
	b.WriteString("\n")
	for _, op := range f.Ops {
		el := svgElement(op)
		if el == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(el)
		b.WriteString("\n")
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func svgElement(op Op) string {
	paint := svgPaint(op)
	switch op.Kind {
	case OpRect:
		return fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"%s%s%s />`,
			formatFloat(op.X), formatFloat(op.Y), formatFloat(op.W), formatFloat(op.H),
			optAttr("rx", op.RX), paint, svgRotate(op, op.X+op.W/2, op.Y+op.H/2))
	case OpCircle:
		return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"%s%s />`,
			formatFloat(op.X), formatFloat(op.Y), formatFloat(op.R), paint, seatAttr(op))
	case OpLine:
		return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"%s />`,
			formatFloat(op.X), formatFloat(op.Y), formatFloat(op.X2), formatFloat(op.Y2), paint)
	case OpText:
		anchor := op.Anchor
		if anchor == "" {
			anchor = "start"
		}
		return fmt.Sprintf(`<text x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="%s" fill="%s"%s>%s</text>`,
			formatFloat(op.X), formatFloat(op.Y), formatFloat(op.FontSize), anchor, svgColor(op.Fill),
			svgRotate(op, op.X, op.Y), html.EscapeString(op.Text))
	}
	return ""
}

func svgPaint(op Op) string {
	var b strings.Builder
	if op.Kind != OpLine {
		b.WriteString(fmt.Sprintf(` fill="%s"`, svgColor(op.Fill)))
	}
	if op.Stroke != "" {
		b.WriteString(fmt.Sprintf(` stroke="%s" stroke-width="%s"`, op.Stroke, formatFloat(op.StrokeWidth)))
	}
	if len(op.Dash) > 0 {
		parts := make([]string, len(op.Dash))
		for i, d := range op.Dash {
			parts[i] = formatFloat(d)
		}
		b.WriteString(fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " ")))
	}
	return b.String()
}

func svgColor(c string) string {
	if c == "" {
		return "none"
	}
	return c
}

func svgRotate(op Op, cx, cy float64) string {
	if op.Rotate == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`, formatFloat(op.Rotate), formatFloat(cx), formatFloat(cy))
}

func seatAttr(op Op) string {
	if op.SeatID == "" {
		return ""
	}
	return fmt.Sprintf(` data-seat="%s"`, html.EscapeString(op.SeatID))
}

func optAttr(name string, v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, name, formatFloat(v))
}

// formatFloat trims float noise so documents stay small and stable.
func formatFloat(v float64) string {
	return strconv.FormatFloat(roundTo(v, 3), 'f', -1, 64)
}
