package dropzone

import (
	"testing"

	"binder/internal/engine/layout"
)

// dropView builds a measured root order [placeholder, folderF(x, y), docB].
// Rows: ph [0,48), folderF [56,216) with children x [112,160) y [168,216),
// docB [224,272).
func dropView() *layout.View {
	return &layout.View{
		Root: []string{"ph", "folderF", "docB"},
		Nodes: map[string]layout.Node{
			"ph":      {ID: "ph", Kind: layout.KindDocument, Placeholder: true},
			"docB":    {ID: "docB", Kind: layout.KindDocument},
			"folderF": {ID: "folderF", Kind: layout.KindFolder, Expanded: true},
			"x":       {ID: "x", Kind: layout.KindDocument, Parent: "folderF"},
			"y":       {ID: "y", Kind: layout.KindDocument, Parent: "folderF"},
		},
		Children: map[string][]string{"folderF": {"x", "y"}},
		Heights: map[string]float64{
			"ph": 48, "docB": 48,
			"folderF": 160,
			"x":       48, "y": 48,
		},
		Gap:          8,
		Width:        280,
		HeaderHeight: 48,
	}
}

func TestResolve(t *testing.T) {
	cfg := Config{FolderPad: 20}

	tests := []struct {
		name string
		p    layout.Point
		want Target
	}{
		{
			name: "placeholder wins over everything",
			p:    layout.Point{X: 100, Y: 40}, // inside ph, inside folder pad
			want: Target{Kind: TargetPlaceholder, PlaceholderID: "ph"},
		},
		{
			name: "folder body with insertion index",
			p:    layout.Point{X: 100, Y: 165}, // between x and y midpoints
			want: Target{Kind: TargetFolder, FolderID: "folderF", Index: 1},
		},
		{
			name: "folder pad above the box",
			p:    layout.Point{X: 100, Y: 50},
			want: Target{Kind: TargetFolder, FolderID: "folderF", Index: 0},
		},
		{
			name: "blank gap resolves to root index",
			p:    layout.Point{X: 100, Y: 250},
			want: Target{Kind: TargetRoot, Index: 2},
		},
		{
			name: "below all rows appends to root",
			p:    layout.Point{X: 100, Y: 500},
			want: Target{Kind: TargetRoot, Index: 3},
		},
		{
			name: "pointer outside horizontal bounds skips placeholder and folder",
			p:    layout.Point{X: 500, Y: 40},
			want: Target{Kind: TargetRoot, Index: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := dropView()
			if got := Resolve(v, tt.p, cfg); got != tt.want {
				t.Errorf("Resolve(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestResolveDefersWhenUnmeasured(t *testing.T) {
	v := dropView()
	v.Heights = nil

	got := Resolve(v, layout.Point{X: 100, Y: 40}, Config{FolderPad: 20})
	if got.Kind != TargetNone {
		t.Errorf("Resolve() on unmeasured view = %+v, want TargetNone", got)
	}
}

func TestResolveCollapsedFolderAppends(t *testing.T) {
	v := dropView()
	node := v.Nodes["folderF"]
	node.Expanded = false
	v.Nodes["folderF"] = node
	// Collapsed folder renders as a single header row.
	v.Heights["folderF"] = 48

	got := Resolve(v, layout.Point{X: 100, Y: 70}, Config{FolderPad: 20})
	want := Target{Kind: TargetFolder, FolderID: "folderF", Index: 2}
	if got != want {
		t.Errorf("Resolve() = %+v, want append %+v", got, want)
	}
}

func TestResolveFolderChildPlaceholder(t *testing.T) {
	v := dropView()
	child := v.Nodes["x"]
	child.Placeholder = true
	v.Nodes["x"] = child

	got := Resolve(v, layout.Point{X: 100, Y: 130}, Config{FolderPad: 20}) // inside x's row
	want := Target{Kind: TargetPlaceholder, PlaceholderID: "x"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}
