package layout

// Kind distinguishes the two item flavors in a sidebar container.
type Kind int

const (
	KindDocument Kind = iota
	KindFolder
)

// Node is the structural view of one item, independent of measurement.
type Node struct {
	ID          string
	Kind        Kind
	Parent      string // containing folder id for documents, "" = root
	Expanded    bool   // folders only
	Placeholder bool   // documents only
}

// Point is a pointer position in container-relative coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is a vertical slice of the container. Rows span the full container
// width, so hit tests only carry top and height; horizontal slack is applied
// by the caller.
type Rect struct {
	Top    float64
	Height float64
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }
func (r Rect) Mid() float64    { return r.Top + r.Height/2 }

// Contains reports whether y falls inside the rect, with outward padding
// applied above and below.
func (r Rect) Contains(y, pad float64) bool {
	return y >= r.Top-pad && y < r.Bottom()+pad
}

// View couples the structure of one collection sidebar (root mixed order,
// folder children, item nodes) with the latest client-reported measurements.
// It is the snapshot both drop resolvers hit-test against; all methods are
// read-only.
type View struct {
	Root     []string            // mixed order of root item ids
	Nodes    map[string]Node     // every visible item
	Children map[string][]string // folder id -> ordered child document ids
	Heights  map[string]float64  // measured row heights

	Gap          float64
	Width        float64
	HeaderHeight float64 // folder header row height, for child offsets

	ScrollTop      float64
	ViewportHeight float64
}

// Measured reports whether any layout measurements have arrived yet.
// Hit-testing against an unmeasured view must defer, not guess.
func (v *View) Measured() bool {
	return len(v.Heights) > 0
}

// HeightOf returns the measured height of a row, falling back for
// unmeasured ids.
func (v *View) HeightOf(id string) float64 {
	return HeightOf(v.Heights, id)
}

// Extent returns the total root content height.
func (v *View) Extent() float64 {
	return ContentExtent(v.Root, v.Heights, v.Gap)
}

// RootRect returns the rect of a root-level item. The second return is
// false when id is not in the root order.
func (v *View) RootRect(id string) (Rect, bool) {
	top := 0.0
	for _, rid := range v.Root {
		h := v.HeightOf(rid)
		if rid == id {
			return Rect{Top: top, Height: h}, true
		}
		top += h + v.Gap
	}
	return Rect{}, false
}

// ChildRect returns the rect of the i-th child row of a folder, stacked
// below the folder header inside the folder's root rect.
func (v *View) ChildRect(folderID string, index int) (Rect, bool) {
	fr, ok := v.RootRect(folderID)
	if !ok {
		return Rect{}, false
	}
	kids := v.Children[folderID]
	if index < 0 || index >= len(kids) {
		return Rect{}, false
	}
	top := fr.Top + v.HeaderHeight + v.Gap
	for i := 0; i < index; i++ {
		top += v.HeightOf(kids[i]) + v.Gap
	}
	return Rect{Top: top, Height: v.HeightOf(kids[index])}, true
}

// childRects returns the rects of a folder's child rows, skipping exclude.
// Child rows stack below the folder header inside the folder's root rect.
func (v *View) childRects(folderID, exclude string) ([]string, []Rect) {
	fr, ok := v.RootRect(folderID)
	if !ok {
		return nil, nil
	}
	var ids []string
	var rects []Rect
	top := fr.Top + v.HeaderHeight + v.Gap
	for _, cid := range v.Children[folderID] {
		if cid == exclude {
			continue
		}
		h := v.HeightOf(cid)
		ids = append(ids, cid)
		rects = append(rects, Rect{Top: top, Height: h})
		top += h + v.Gap
	}
	return ids, rects
}

// FolderInsertIndex resolves where a row dropped at y lands inside a
// folder, by comparing y against the vertical midpoint of each existing
// child (excluding the dragged item itself, when it is already inside).
// An empty folder yields 0; a collapsed folder appends.
func (v *View) FolderInsertIndex(folderID string, y float64, exclude string) int {
	node, ok := v.Nodes[folderID]
	if !ok || node.Kind != KindFolder {
		return 0
	}
	remaining := 0
	for _, cid := range v.Children[folderID] {
		if cid != exclude {
			remaining++
		}
	}
	if !node.Expanded {
		return remaining // collapsed folders append
	}
	_, rects := v.childRects(folderID, exclude)
	for i, r := range rects {
		if y < r.Mid() {
			return i
		}
	}
	return remaining
}

// RootSlotIndex returns the plain reorder slot nearest y in the root order,
// with exclude (the dragged item) removed from consideration.
func (v *View) RootSlotIndex(y float64, exclude string) int {
	top := 0.0
	index := 0
	for _, id := range v.Root {
		if id == exclude {
			continue
		}
		h := v.HeightOf(id)
		if y < top+h/2 {
			return index
		}
		top += h + v.Gap
		index++
	}
	return index
}

// RootCumulativeIndex resolves a root insertion index for an external drop
// by walking the mixed order and comparing y against the cumulative
// (height + gap) of each row.
func (v *View) RootCumulativeIndex(y float64) int {
	acc := 0.0
	for i, id := range v.Root {
		acc += v.HeightOf(id) + v.Gap
		if y < acc {
			return i
		}
	}
	return len(v.Root)
}
