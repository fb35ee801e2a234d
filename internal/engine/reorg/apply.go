package reorg

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Mutator executes the individual structural calls of one reorganization.
// Each call commits independently; there is no transactional rollback
// across the batch.
type Mutator interface {
	// CreateFolder creates a folder by name and returns its assigned id.
	CreateFolder(ctx context.Context, name string) (string, error)
	// MoveDocument relocates a document; nil folder means the root.
	MoveDocument(ctx context.Context, documentID string, folderID *string) error
	// DeleteFolder removes an empty folder.
	DeleteFolder(ctx context.Context, folderID string) error
}

// Apply executes the diff in the order the folder-emptiness invariant
// requires: create all folders first, then apply each effective move
// (resolving pending targets through the created-name mapping), then
// delete. Returns the ids of the created folders in creation order.
//
// On error, whatever calls already completed stay committed; the caller
// surfaces a single failure notice.
func Apply(ctx context.Context, m Mutator, d *Diff) ([]string, error) {
	created := make(map[string]string, len(d.CreatingFolders)) // name -> id
	createdIDs := make([]string, 0, len(d.CreatingFolders))

	for _, name := range d.CreatingFolders {
		id, err := m.CreateFolder(ctx, name)
		if err != nil {
			return createdIDs, fmt.Errorf("create folder %q: %w", name, err)
		}
		created[name] = id
		createdIDs = append(createdIDs, id)
	}

	for _, mv := range d.Moves {
		target, err := resolveTarget(mv.TargetFolderID, created)
		if err != nil {
			return createdIDs, err
		}
		if err := m.MoveDocument(ctx, mv.DocumentID, target); err != nil {
			return createdIDs, fmt.Errorf("move document %s: %w", mv.DocumentID, err)
		}
	}

	for _, id := range sortedIDs(d.DeletingFolderIDs) {
		if err := m.DeleteFolder(ctx, id); err != nil {
			return createdIDs, fmt.Errorf("delete folder %s: %w", id, err)
		}
	}

	return createdIDs, nil
}

// resolveTarget maps a pending placeholder to the freshly created folder
// id. An exact name match is tried first, then a case-insensitive scan in
// case the organizer normalized the name differently.
func resolveTarget(target *string, created map[string]string) (*string, error) {
	if target == nil || !strings.HasPrefix(*target, PendingIDPrefix) {
		return target, nil
	}
	name := strings.TrimPrefix(*target, PendingIDPrefix)
	if id, ok := created[name]; ok {
		return &id, nil
	}
	for n, id := range created {
		if strings.EqualFold(n, name) {
			return &id, nil
		}
	}
	return nil, fmt.Errorf("pending folder %q was never created", name)
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	// Deterministic delete order keeps logs and tests stable.
	sort.Strings(ids)
	return ids
}
