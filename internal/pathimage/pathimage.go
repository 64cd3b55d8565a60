// Package pathimage draws the decision tree with one root-to-leaf path
// highlighted. It backs path assets that are not present in the asset source.
package pathimage

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/yungbote/diabetes-app/internal/decisionpath"
)

const (
	Width  = 1200
	Height = 640

	marginX  = 90.0
	topY     = 110.0
	levelGap = 150.0
	boxW     = 150.0
	boxH     = 44.0
)

var (
	colorBG        = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	colorEdge      = color.NRGBA{0xB0, 0xB7, 0xC3, 0xFF}
	colorHighlight = color.NRGBA{0xD9, 0x48, 0x3B, 0xFF}
	colorNode      = color.NRGBA{0xE8, 0xEE, 0xF7, 0xFF}
	colorLeaf      = color.NRGBA{0xF4, 0xF1, 0xE6, 0xFF}
	colorText      = color.NRGBA{0x22, 0x2B, 0x36, 0xFF}
)

type node struct {
	label    string
	leaf     *decisionpath.Key
	children []edge

	x, y  float64
	depth int
}

type edge struct {
	label string
	bit   uint8
	to    *node
}

func leafNode(k decisionpath.Key) *node {
	kk := k
	return &node{label: "Leaf " + k.String(), leaf: &kk}
}

func split(label string, no, yes edge) *node {
	return &node{label: label, children: []edge{no, yes}}
}

// buildTree mirrors decisionpath.Resolve. Edge bits are the Key digit taken at
// that depth.
func buildTree() *node {
	return split("Polyuria",
		edge{"No", 0, split("Gender",
			edge{"Female", 0, split("Alopecia",
				edge{"No", 0, leafNode(decisionpath.Key{0, 0, 0})},
				edge{"Yes", 1, leafNode(decisionpath.Key{0, 0, 1})},
			)},
			edge{"Male", 1, split("Polydipsia",
				edge{"No", 0, leafNode(decisionpath.Key{0, 1, 0})},
				edge{"Yes", 1, leafNode(decisionpath.Key{0, 1, 1})},
			)},
		)},
		edge{"Yes", 1, split(fmt.Sprintf("Age <= %.1f", decisionpath.AgeSplit),
			edge{"Yes", 0, leafNode(decisionpath.Key{1, 0, 0})},
			edge{"No", 1, split("Weight loss",
				edge{"No", 0, leafNode(decisionpath.Key{1, 1, 0})},
				edge{"Yes", 1, leafNode(decisionpath.Key{1, 1, 1})},
			)},
		)},
	)
}

// layout places leaves left to right and centers parents over their children.
func layout(root *node) {
	var leaves []*node
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		n.depth = depth
		n.y = topY + float64(depth)*levelGap
		if len(n.children) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, e := range n.children {
			walk(e.to, depth+1)
		}
	}
	walk(root, 0)

	step := (Width - 2*marginX) / float64(len(leaves)-1)
	for i, l := range leaves {
		l.x = marginX + float64(i)*step
	}

	var center func(n *node) float64
	center = func(n *node) float64 {
		if len(n.children) == 0 {
			return n.x
		}
		sum := 0.0
		for _, e := range n.children {
			sum += center(e.to)
		}
		n.x = sum / float64(len(n.children))
		return n.x
	}
	center(root)
}

type Renderer struct {
	face font.Face
}

// New loads a TrueType face from fontPath, or uses the built-in bitmap face
// when fontPath is empty.
func New(fontPath string) (*Renderer, error) {
	if strings.TrimSpace(fontPath) == "" {
		return &Renderer{face: basicfont.Face7x13}, nil
	}
	face, err := loadFontFace(fontPath, 16)
	if err != nil {
		return nil, err
	}
	return &Renderer{face: face}, nil
}

// RenderAsset draws the image for a known asset name. DefaultAsset yields the
// tree without a highlighted path.
func (r *Renderer) RenderAsset(name string) ([]byte, error) {
	if name == decisionpath.DefaultAsset {
		return r.Render(nil, "Generated Decision Tree")
	}
	leaf, ok := decisionpath.LeafForAsset(name)
	if !ok {
		return nil, fmt.Errorf("unknown path asset %q", name)
	}
	k := leaf.Key
	return r.Render(&k, "Decision Path: "+leaf.Description)
}

// Render draws the tree, highlighting the path to key when non-nil.
func (r *Renderer) Render(key *decisionpath.Key, title string) ([]byte, error) {
	root := buildTree()
	layout(root)

	dc := gg.NewContext(Width, Height)
	dc.SetColor(colorBG)
	dc.Clear()
	dc.SetFontFace(r.face)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(title, Width/2, 40, 0.5, 0.5)

	r.drawEdges(dc, root, key, true)
	r.drawNodes(dc, root, key, true)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func onPath(key *decisionpath.Key, parentOn bool, depth int, bit uint8) bool {
	return key != nil && parentOn && depth < len(*key) && (*key)[depth] == bit
}

func (r *Renderer) drawEdges(dc *gg.Context, n *node, key *decisionpath.Key, on bool) {
	for _, e := range n.children {
		hot := onPath(key, on, n.depth, e.bit)
		if hot {
			dc.SetColor(colorHighlight)
			dc.SetLineWidth(5)
		} else {
			dc.SetColor(colorEdge)
			dc.SetLineWidth(2)
		}
		x1, y1 := n.x, n.y+boxH/2
		x2, y2 := e.to.x, e.to.y-boxH/2
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()

		dc.SetColor(colorText)
		dc.DrawStringAnchored(e.label, (x1+x2)/2+6, (y1+y2)/2, 0, 0.5)

		r.drawEdges(dc, e.to, key, hot)
	}
}

func (r *Renderer) drawNodes(dc *gg.Context, n *node, key *decisionpath.Key, on bool) {
	fill := colorNode
	if n.leaf != nil {
		fill = colorLeaf
	}
	x, y := n.x-boxW/2, n.y-boxH/2
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 8)
	dc.SetColor(fill)
	dc.FillPreserve()
	if key != nil && on {
		dc.SetColor(colorHighlight)
		dc.SetLineWidth(3)
	} else {
		dc.SetColor(colorEdge)
		dc.SetLineWidth(1)
	}
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(n.label, n.x, n.y, 0.5, 0.5)

	for _, e := range n.children {
		r.drawNodes(dc, e.to, key, onPath(key, on, n.depth, e.bit))
	}
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
