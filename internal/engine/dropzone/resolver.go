// Package dropzone resolves drop targets for natively-dragged OS files.
// Unlike the drag package there is no internal item in flight, only pointer
// coordinates; resolution is stateless per pointer sample.
package dropzone

import (
	"binder/internal/engine/layout"
)

// TargetKind classifies what is under the pointer.
type TargetKind int

const (
	// TargetNone means resolution is deferred: layout has not been
	// measured yet, so there is nothing sound to hit-test against.
	TargetNone TargetKind = iota
	// TargetPlaceholder is a placeholder document, a single-file replace
	// target. Multi-file drops onto a placeholder are rejected by the
	// caller.
	TargetPlaceholder
	// TargetFolder is a folder body with an internal insertion index.
	TargetFolder
	// TargetRoot is a blank gap in the root list.
	TargetRoot
)

func (k TargetKind) String() string {
	switch k {
	case TargetPlaceholder:
		return "placeholder"
	case TargetFolder:
		return "folder"
	case TargetRoot:
		return "root"
	default:
		return "none"
	}
}

// Target is the resolved drop target for one pointer sample.
type Target struct {
	Kind          TargetKind `json:"kind"`
	PlaceholderID string     `json:"placeholder_id,omitempty"`
	FolderID      string     `json:"folder_id,omitempty"`
	Index         int        `json:"index"`
}

// Config carries the hit-testing tunables.
type Config struct {
	// FolderPad is the outward padding applied to folder boxes.
	FolderPad float64
}

// Resolve hit-tests the pointer against the current view, in order:
// placeholder documents, padded folder boxes, then a root insertion index
// from the cumulative row extents. The insertion index inside a folder is
// computed against the folder's actual children (nothing to exclude); a
// collapsed folder appends.
func Resolve(v *layout.View, p layout.Point, cfg Config) Target {
	if !v.Measured() {
		return Target{Kind: TargetNone}
	}

	if id, ok := placeholderAt(v, p); ok {
		return Target{Kind: TargetPlaceholder, PlaceholderID: id}
	}

	if p.X >= -cfg.FolderPad && p.X <= v.Width+cfg.FolderPad {
		for _, id := range v.Root {
			node := v.Nodes[id]
			if node.Kind != layout.KindFolder {
				continue
			}
			r, ok := v.RootRect(id)
			if !ok {
				continue
			}
			if r.Contains(p.Y, cfg.FolderPad) {
				return Target{
					Kind:     TargetFolder,
					FolderID: id,
					Index:    v.FolderInsertIndex(id, p.Y, ""),
				}
			}
		}
	}

	return Target{Kind: TargetRoot, Index: v.RootCumulativeIndex(p.Y)}
}

// placeholderAt tests every visible placeholder row: root documents and the
// children of expanded folders.
func placeholderAt(v *layout.View, p layout.Point) (string, bool) {
	if p.X < 0 || p.X > v.Width {
		return "", false
	}
	for _, id := range v.Root {
		node := v.Nodes[id]
		switch node.Kind {
		case layout.KindDocument:
			if !node.Placeholder {
				continue
			}
			if r, ok := v.RootRect(id); ok && r.Contains(p.Y, 0) {
				return id, true
			}
		case layout.KindFolder:
			if !node.Expanded {
				continue
			}
			for i, cid := range v.Children[id] {
				child := v.Nodes[cid]
				if !child.Placeholder {
					continue
				}
				if r, ok := v.ChildRect(id, i); ok && r.Contains(p.Y, 0) {
					return cid, true
				}
			}
		}
	}
	return "", false
}
