// Package drag implements the single in-flight drag session for one
// collection sidebar: hover-target resolution while the pointer moves, and
// drop-decision resolution on release.
package drag

import (
	"fmt"

	"binder/internal/engine/layout"
)

// State of a drag session. A session is created dragging and becomes done
// exactly once, on drop or cancel.
type State int

const (
	StateDragging State = iota
	StateDropped
	StateCancelled
)

// Config carries the hit-testing tunables.
type Config struct {
	// GroupBandFraction is the vertical share of a document row, centered,
	// that accepts a grouping hover (0.5 = middle 50%).
	GroupBandFraction float64
	// GroupBandPadX is the horizontal slack, in units, either side of the
	// row for the grouping band.
	GroupBandPadX float64
	// FolderPad is the outward padding applied to a folder's box for
	// folder-drop detection.
	FolderPad float64
}

// DefaultConfig matches the sidebar's rendered geometry.
func DefaultConfig() Config {
	return Config{
		GroupBandFraction: 0.5,
		GroupBandPadX:     8,
		FolderPad:         20,
	}
}

// Hover is the resolved hover target for the latest pointer sample.
// FolderID and DocumentID are mutually exclusive; Index is an insertion
// index whose container depends on which of the two is set (or the root
// when neither is).
type Hover struct {
	FolderID   string `json:"folder_id,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	Index      int    `json:"index"`
}

// Session tracks one in-flight drag. At most one session exists per
// collection view; the owning manager enforces that.
type Session struct {
	ItemID string
	Kind   layout.Kind

	// WasExpanded remembers whether a dragged folder was expanded when the
	// drag began, so expansion is restored after the drop regardless of
	// outcome.
	WasExpanded bool

	// GrabOffset is the pointer's offset from the item origin at press.
	GrabOffset layout.Point

	state State
	hover Hover
	cfg   Config
}

// Start begins a session for the pressed item. The item must exist in the
// view.
func Start(v *layout.View, itemID string, at layout.Point, cfg Config) (*Session, error) {
	node, ok := v.Nodes[itemID]
	if !ok {
		return nil, fmt.Errorf("drag start: unknown item %s", itemID)
	}

	grab := layout.Point{X: at.X, Y: at.Y}
	if r, ok := v.RootRect(itemID); ok {
		grab.Y = at.Y - r.Top
	}

	return &Session{
		ItemID:      itemID,
		Kind:        node.Kind,
		WasExpanded: node.Kind == layout.KindFolder && node.Expanded,
		GrabOffset:  grab,
		state:       StateDragging,
		cfg:         cfg,
	}, nil
}

func (s *Session) State() State { return s.state }
func (s *Session) Hover() Hover { return s.hover }

// Move recomputes the hover target for the latest pointer sample. Targets
// are tested in priority order: grouping band of a root document, padded
// folder box, then the plain reorder slot. Dragging a folder never
// triggers grouping or folder-drop detection; folders only reorder among
// root siblings.
func (s *Session) Move(v *layout.View, p layout.Point) Hover {
	s.hover = s.resolveHover(v, p)
	return s.hover
}

func (s *Session) resolveHover(v *layout.View, p layout.Point) Hover {
	if s.Kind == layout.KindDocument {
		if id, ok := s.groupTarget(v, p); ok {
			return Hover{DocumentID: id}
		}
		if id, idx, ok := s.folderTarget(v, p); ok {
			return Hover{FolderID: id, Index: idx}
		}
	}
	return Hover{Index: v.RootSlotIndex(p.Y, s.ItemID)}
}

// groupTarget tests root-level documents' center bands. The band is the
// middle GroupBandFraction of the row's vertical extent, with a little
// horizontal slack either side.
func (s *Session) groupTarget(v *layout.View, p layout.Point) (string, bool) {
	if p.X < -s.cfg.GroupBandPadX || p.X > v.Width+s.cfg.GroupBandPadX {
		return "", false
	}
	for _, id := range v.Root {
		if id == s.ItemID {
			continue
		}
		node := v.Nodes[id]
		if node.Kind != layout.KindDocument {
			continue
		}
		r, ok := v.RootRect(id)
		if !ok {
			continue
		}
		band := r.Height * s.cfg.GroupBandFraction
		top := r.Top + (r.Height-band)/2
		if p.Y >= top && p.Y < top+band {
			return id, true
		}
	}
	return "", false
}

// folderTarget tests folders' padded boxes and resolves the internal
// insertion index against the folder's children, excluding the dragged
// item itself.
func (s *Session) folderTarget(v *layout.View, p layout.Point) (string, int, bool) {
	if p.X < -s.cfg.FolderPad || p.X > v.Width+s.cfg.FolderPad {
		return "", 0, false
	}
	for _, id := range v.Root {
		node := v.Nodes[id]
		if node.Kind != layout.KindFolder {
			continue
		}
		r, ok := v.RootRect(id)
		if !ok {
			continue
		}
		if r.Contains(p.Y, s.cfg.FolderPad) {
			return id, v.FolderInsertIndex(id, p.Y, s.ItemID), true
		}
	}
	return "", 0, false
}
