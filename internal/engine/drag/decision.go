package drag

import (
	"binder/internal/engine/layout"
)

// Op is the resolved outcome of ending a drag session.
type Op int

const (
	// OpReorder updates the order of the item's current container only.
	OpReorder Op = iota
	// OpGroup creates a new folder from the hovered document and the
	// dragged document, at the target's former root position.
	OpGroup
	// OpMoveIntoFolder moves the dragged document into the hovered folder
	// at the resolved insertion index.
	OpMoveIntoFolder
	// OpMoveToRoot clears the dragged document's folder and inserts it
	// into the root order.
	OpMoveToRoot
	// OpAddToContext is the chat/context drop-zone short circuit: no
	// structural mutation, only a side-channel notification.
	OpAddToContext
)

func (o Op) String() string {
	switch o {
	case OpGroup:
		return "group"
	case OpMoveIntoFolder:
		return "move-into-folder"
	case OpMoveToRoot:
		return "move-to-root"
	case OpAddToContext:
		return "add-to-context"
	default:
		return "reorder"
	}
}

// Zone is where the pointer was released.
type Zone int

const (
	// ZoneSidebar resolves through normal drop logic.
	ZoneSidebar Zone = iota
	// ZoneChatContext short-circuits resolution: the item is offered as
	// chat context instead of being moved.
	ZoneChatContext
)

// Decision is the total resolution of a drop. Exactly one of the target
// fields is meaningful, selected by Op.
type Decision struct {
	Op     Op
	ItemID string

	TargetDocumentID string // OpGroup: the hovered root document
	FolderID         string // OpMoveIntoFolder: the hovered folder
	Index            int    // insertion/reorder index in the target container

	// RestoreExpanded is set when the dragged item is a folder that was
	// expanded before the drag; the caller re-expands it after the drop
	// completes, even on a no-op drag.
	RestoreExpanded bool
}

// Drop ends the session, resolving the decision from the most recent
// pointer sample. Resolution priority: chat-context zone, group-into-folder,
// move-into-folder, move-to-root, reorder-in-place. The session is done
// afterwards; hover state is cleared.
func (s *Session) Drop(v *layout.View, p layout.Point, zone Zone) Decision {
	restore := s.Kind == layout.KindFolder && s.WasExpanded

	if zone == ZoneChatContext {
		s.finish(StateCancelled)
		return Decision{Op: OpAddToContext, ItemID: s.ItemID, RestoreExpanded: restore}
	}

	hover := s.resolveHover(v, p)
	defer s.finish(StateDropped)

	node := v.Nodes[s.ItemID]

	if s.Kind == layout.KindDocument && hover.DocumentID != "" {
		if target, ok := v.Nodes[hover.DocumentID]; ok && target.Parent == "" {
			return Decision{
				Op:               OpGroup,
				ItemID:           s.ItemID,
				TargetDocumentID: hover.DocumentID,
				RestoreExpanded:  restore,
			}
		}
	}

	if hover.FolderID != "" {
		return Decision{
			Op:              OpMoveIntoFolder,
			ItemID:          s.ItemID,
			FolderID:        hover.FolderID,
			Index:           hover.Index,
			RestoreExpanded: restore,
		}
	}

	if s.Kind == layout.KindDocument && node.Parent != "" {
		return Decision{
			Op:              OpMoveToRoot,
			ItemID:          s.ItemID,
			Index:           hover.Index,
			RestoreExpanded: restore,
		}
	}

	return Decision{
		Op:              OpReorder,
		ItemID:          s.ItemID,
		Index:           hover.Index,
		RestoreExpanded: restore,
	}
}

// Cancel ends the session without resolving a decision.
func (s *Session) Cancel() {
	s.finish(StateCancelled)
}

func (s *Session) finish(st State) {
	s.state = st
	s.hover = Hover{}
}
