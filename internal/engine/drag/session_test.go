package drag

import (
	"testing"

	"binder/internal/engine/layout"
)

// sidebarView builds a measured root order [docA, folderF(x, y), docB]
// with 48-unit rows and an 8-unit gap.
func sidebarView() *layout.View {
	return &layout.View{
		Root: []string{"docA", "folderF", "docB"},
		Nodes: map[string]layout.Node{
			"docA":    {ID: "docA", Kind: layout.KindDocument},
			"docB":    {ID: "docB", Kind: layout.KindDocument},
			"folderF": {ID: "folderF", Kind: layout.KindFolder, Expanded: true},
			"x":       {ID: "x", Kind: layout.KindDocument, Parent: "folderF"},
			"y":       {ID: "y", Kind: layout.KindDocument, Parent: "folderF"},
		},
		Children: map[string][]string{"folderF": {"x", "y"}},
		Heights: map[string]float64{
			"docA": 48, "docB": 48,
			"folderF": 160,
			"x":       48, "y": 48,
		},
		Gap:          8,
		Width:        280,
		HeaderHeight: 48,
	}
}

// Row geometry: docA [0,48), folderF [56,216), docB [224,272).
// Children of folderF: x [112,160), y [168,216).

func startDrag(t *testing.T, v *layout.View, itemID string) *Session {
	t.Helper()
	s, err := Start(v, itemID, layout.Point{X: 10, Y: 10}, DefaultConfig())
	if err != nil {
		t.Fatalf("Start(%s): %v", itemID, err)
	}
	return s
}

func TestStartUnknownItem(t *testing.T) {
	v := sidebarView()
	if _, err := Start(v, "ghost", layout.Point{}, DefaultConfig()); err == nil {
		t.Error("Start() with unknown item succeeded, want error")
	}
}

func TestMoveHoverResolution(t *testing.T) {
	tests := []struct {
		name    string
		dragged string
		p       layout.Point
		want    Hover
	}{
		{
			name:    "document over another document's center band groups",
			dragged: "docB",
			p:       layout.Point{X: 100, Y: 24}, // docA's band is [12,36)
			want:    Hover{DocumentID: "docA"},
		},
		{
			name:    "document over document's edge falls through to reorder",
			dragged: "docB",
			p:       layout.Point{X: 100, Y: 4}, // above docA's band, above midpoint
			want:    Hover{Index: 0},
		},
		{
			name:    "document over folder body resolves insertion index",
			dragged: "docB",
			p:       layout.Point{X: 100, Y: 165}, // between x and y midpoints
			want:    Hover{FolderID: "folderF", Index: 1},
		},
		{
			name:    "document inside folder pad but outside box still hits",
			dragged: "docB",
			p:       layout.Point{X: 100, Y: 50}, // 6 above folder top, within 20 pad
			want:    Hover{FolderID: "folderF", Index: 0},
		},
		{
			name:    "document far from any target reorders at nearest slot",
			dragged: "docA",
			p:       layout.Point{X: 100, Y: 260},
			want:    Hover{Index: 2},
		},
		{
			name:    "folder drag never groups or enters folders",
			dragged: "folderF",
			p:       layout.Point{X: 100, Y: 24}, // over docA's band
			want:    Hover{Index: 1},             // plain slot past docA's midpoint
		},
		{
			name:    "pointer outside horizontal slack skips grouping",
			dragged: "docB",
			p:       layout.Point{X: 400, Y: 24},
			want:    Hover{Index: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := sidebarView()
			s := startDrag(t, v, tt.dragged)
			if got := s.Move(v, tt.p); got != tt.want {
				t.Errorf("Move(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestGroupingTakesPrecedenceOverFolderPad(t *testing.T) {
	// With a 40-unit folder pad, folderF's padded box reaches down to 256
	// and overlaps docB's center band [236,260). A pointer inside both must
	// resolve to grouping.
	v := sidebarView()
	cfg := DefaultConfig()
	cfg.FolderPad = 40
	s, err := Start(v, "docA", layout.Point{X: 10, Y: 10}, cfg)
	if err != nil {
		t.Fatalf("Start(docA): %v", err)
	}

	got := s.Move(v, layout.Point{X: 100, Y: 240})
	want := Hover{DocumentID: "docB"}
	if got != want {
		t.Errorf("Move() = %+v, want grouping %+v", got, want)
	}
}

func TestDropDecisions(t *testing.T) {
	tests := []struct {
		name    string
		dragged string
		p       layout.Point
		want    Decision
	}{
		{
			name:    "group into folder at target's position",
			dragged: "docB",
			p:       layout.Point{X: 100, Y: 24},
			want:    Decision{Op: OpGroup, ItemID: "docB", TargetDocumentID: "docA"},
		},
		{
			name:    "move into folder",
			dragged: "docB",
			p:       layout.Point{X: 100, Y: 165},
			want:    Decision{Op: OpMoveIntoFolder, ItemID: "docB", FolderID: "folderF", Index: 1},
		},
		{
			name:    "folder document dropped in the open moves to root",
			dragged: "x",
			p:       layout.Point{X: 100, Y: 260},
			want:    Decision{Op: OpMoveToRoot, ItemID: "x", Index: 3},
		},
		{
			name:    "root document with no target reorders in place",
			dragged: "docA",
			p:       layout.Point{X: 100, Y: 260},
			want:    Decision{Op: OpReorder, ItemID: "docA", Index: 2},
		},
		{
			name:    "folder reorders among root siblings",
			dragged: "folderF",
			p:       layout.Point{X: 100, Y: 260},
			want:    Decision{Op: OpReorder, ItemID: "folderF", Index: 2, RestoreExpanded: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := sidebarView()
			s := startDrag(t, v, tt.dragged)
			got := s.Drop(v, tt.p, ZoneSidebar)
			if got != tt.want {
				t.Errorf("Drop() = %+v, want %+v", got, tt.want)
			}
			if s.State() != StateDropped {
				t.Errorf("state after drop = %v, want StateDropped", s.State())
			}
			if s.Hover() != (Hover{}) {
				t.Errorf("hover not cleared after drop: %+v", s.Hover())
			}
		})
	}
}

func TestDropGroupRequiresRootLevelTarget(t *testing.T) {
	// Hovering a folder child's band must not group; the pointer is inside
	// the folder box, so the drop moves into the folder instead.
	v := sidebarView()
	s := startDrag(t, v, "docB")

	got := s.Drop(v, layout.Point{X: 100, Y: 136}, ZoneSidebar) // x's midpoint
	if got.Op != OpMoveIntoFolder {
		t.Errorf("Drop() op = %v, want OpMoveIntoFolder", got.Op)
	}
}

func TestDropChatContextShortCircuits(t *testing.T) {
	v := sidebarView()
	s := startDrag(t, v, "docB")
	s.Move(v, layout.Point{X: 100, Y: 24}) // grouping hover pending

	got := s.Drop(v, layout.Point{X: 100, Y: 24}, ZoneChatContext)
	want := Decision{Op: OpAddToContext, ItemID: "docB"}
	if got != want {
		t.Errorf("Drop() = %+v, want %+v", got, want)
	}
	if s.State() != StateCancelled {
		t.Errorf("state = %v, want StateCancelled", s.State())
	}
}

func TestDropRestoresFolderExpansion(t *testing.T) {
	v := sidebarView()
	s := startDrag(t, v, "folderF")

	// No-op drag: release over the folder's own slot.
	got := s.Drop(v, layout.Point{X: 100, Y: 136}, ZoneSidebar)
	if !got.RestoreExpanded {
		t.Error("RestoreExpanded = false for previously expanded folder")
	}
}

func TestDropUsesLatestPointerSample(t *testing.T) {
	v := sidebarView()
	s := startDrag(t, v, "docB")
	s.Move(v, layout.Point{X: 100, Y: 24}) // hover docA's band

	// The release point, not the stale hover, decides.
	got := s.Drop(v, layout.Point{X: 100, Y: 260}, ZoneSidebar)
	if got.Op != OpReorder || got.Index != 2 {
		t.Errorf("Drop() = %+v, want reorder at index 2", got)
	}
}

func TestAutoscrollerSpeed(t *testing.T) {
	a := Autoscroller{Threshold: 50, MaxSpeed: 10}

	tests := []struct {
		name        string
		pointerY    float64
		top, bottom float64
		want        float64
	}{
		{name: "center of viewport", pointerY: 200, top: 0, bottom: 400, want: 0},
		{name: "at top edge", pointerY: 0, top: 0, bottom: 400, want: -10},
		{name: "halfway into top band", pointerY: 25, top: 0, bottom: 400, want: -5},
		{name: "at bottom edge", pointerY: 400, top: 0, bottom: 400, want: 10},
		{name: "halfway into bottom band", pointerY: 375, top: 0, bottom: 400, want: 5},
		{name: "just outside both bands", pointerY: 100, top: 0, bottom: 400, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Speed(tt.pointerY, tt.top, tt.bottom); got != tt.want {
				t.Errorf("Speed() = %v, want %v", got, tt.want)
			}
		})
	}
}
