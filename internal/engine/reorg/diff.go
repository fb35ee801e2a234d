// Package reorg computes and applies AI-suggested bulk reorganizations as
// a minimal effective operation set over one collection.
package reorg

import (
	"fmt"
	"strings"

	"binder/internal/domain"
)

// PendingIDPrefix marks a move target that references a folder the same
// payload creates. The placeholder key is derived from the proposed name.
const PendingIDPrefix = "new_"

// PendingID returns the placeholder id for a not-yet-created folder.
func PendingID(name string) string {
	return PendingIDPrefix + name
}

// Operations is the structured reorganization payload produced by the
// organizer service.
type Operations struct {
	FoldersToCreate []string       `json:"foldersToCreate"`
	DocumentsToMove []DocumentMove `json:"documentsToMove"`
	FoldersToDelete []string       `json:"foldersToDelete"`
}

// DocumentMove relocates one document. A nil target means the collection
// root; a PendingID target references a folder from FoldersToCreate.
type DocumentMove struct {
	DocumentID     string  `json:"documentId"`
	TargetFolderID *string `json:"targetFolderId"`
}

// Current is the present structure of the collection: every folder id, and
// every document id mapped to its containing folder (nil = root).
type Current struct {
	FolderIDs       []string
	DocumentFolders map[string]*string
}

// Diff partitions all current items, plus the not-yet-existing created
// folders, into pairwise disjoint groups driving the exit/apply/enter
// animation phases.
type Diff struct {
	MovingDocIDs      map[string]struct{}
	DeletingFolderIDs map[string]struct{}
	CreatingFolders   []string
	StayingItemIDs    map[string]struct{}

	// Moves holds the effective moves only, in payload order.
	Moves []DocumentMove
}

// Compute filters no-op moves and partitions the collection.
//
// A move is effective only when its target differs from the document's
// current folder; a pending target is always effective (the folder does
// not exist yet). Moves referencing unknown documents are dropped rather
// than failed, since suggestions can race with deletions.
//
// Deleting a folder that would not be empty once the effective moves have
// run is a validation error: executing it would break the folder-emptiness
// invariant.
func Compute(current Current, ops Operations) (*Diff, error) {
	folders := make(map[string]struct{}, len(current.FolderIDs))
	for _, id := range current.FolderIDs {
		folders[id] = struct{}{}
	}

	d := &Diff{
		MovingDocIDs:      make(map[string]struct{}),
		DeletingFolderIDs: make(map[string]struct{}),
		CreatingFolders:   append([]string(nil), ops.FoldersToCreate...),
		StayingItemIDs:    make(map[string]struct{}),
	}

	for _, mv := range ops.DocumentsToMove {
		cur, known := current.DocumentFolders[mv.DocumentID]
		if !known {
			continue
		}
		if !effectiveMove(cur, mv.TargetFolderID) {
			continue
		}
		if _, dup := d.MovingDocIDs[mv.DocumentID]; dup {
			continue
		}
		d.MovingDocIDs[mv.DocumentID] = struct{}{}
		d.Moves = append(d.Moves, mv)
	}

	for _, id := range ops.FoldersToDelete {
		if _, ok := folders[id]; !ok {
			return nil, fmt.Errorf("%w: cannot delete unknown folder %s", domain.ErrValidation, id)
		}
		d.DeletingFolderIDs[id] = struct{}{}
	}

	// No effective move may target a folder this payload deletes: it
	// would land a document in the folder right before its removal.
	for _, mv := range d.Moves {
		if mv.TargetFolderID == nil {
			continue
		}
		if _, deleting := d.DeletingFolderIDs[*mv.TargetFolderID]; deleting {
			return nil, fmt.Errorf("%w: document %s moves into deleted folder %s",
				domain.ErrValidation, mv.DocumentID, *mv.TargetFolderID)
		}
	}

	// Folder-emptiness: every document currently in a deleted folder must
	// be effectively moved somewhere else by this same payload.
	for docID, folderID := range current.DocumentFolders {
		if folderID == nil {
			continue
		}
		if _, deleting := d.DeletingFolderIDs[*folderID]; !deleting {
			continue
		}
		if _, moving := d.MovingDocIDs[docID]; !moving {
			return nil, fmt.Errorf("%w: folder %s is not empty after moves (document %s stays)",
				domain.ErrValidation, *folderID, docID)
		}
	}

	for _, id := range current.FolderIDs {
		if _, deleting := d.DeletingFolderIDs[id]; !deleting {
			d.StayingItemIDs[id] = struct{}{}
		}
	}
	for id := range current.DocumentFolders {
		if _, moving := d.MovingDocIDs[id]; !moving {
			d.StayingItemIDs[id] = struct{}{}
		}
	}

	return d, nil
}

// effectiveMove reports whether the move changes the document's location.
func effectiveMove(current, target *string) bool {
	if target != nil && strings.HasPrefix(*target, PendingIDPrefix) {
		return true
	}
	if current == nil && target == nil {
		return false
	}
	if current == nil || target == nil {
		return true
	}
	return *current != *target
}

// Empty reports whether the diff carries no effective work at all.
func (d *Diff) Empty() bool {
	return len(d.Moves) == 0 && len(d.CreatingFolders) == 0 && len(d.DeletingFolderIDs) == 0
}
