package service

import (
	"context"
	"fmt"
	"sort"

	"binder/internal/config"
	"binder/internal/domain/models"
	"binder/internal/domain/repositories"
	"binder/internal/engine/layout"
)

// ViewBuilder assembles the hit-testable layout snapshot for one
// collection: structure from storage, geometry from the latest client
// measurement report.
type ViewBuilder struct {
	folderRepo   repositories.FolderRepository
	documentRepo repositories.DocumentRepository
	orderRepo    repositories.OrderRepository
	measurements *MeasurementStore
	cfg          config.EngineConfig
}

func NewViewBuilder(
	folderRepo repositories.FolderRepository,
	documentRepo repositories.DocumentRepository,
	orderRepo repositories.OrderRepository,
	measurements *MeasurementStore,
	cfg config.EngineConfig,
) *ViewBuilder {
	return &ViewBuilder{
		folderRepo:   folderRepo,
		documentRepo: documentRepo,
		orderRepo:    orderRepo,
		measurements: measurements,
		cfg:          cfg,
	}
}

// Build loads the collection's structure and couples it with the latest
// measurements. The view is a point-in-time snapshot; callers must not
// hold it across mutations.
func (b *ViewBuilder) Build(ctx context.Context, collectionID string) (*layout.View, error) {
	folders, err := b.folderRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	docs, err := b.documentRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	order, err := b.orderRepo.Get(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("loading mixed order: %w", err)
	}

	nodes := make(map[string]layout.Node, len(folders)+len(docs))
	children := make(map[string][]string)
	for i := range folders {
		f := &folders[i]
		nodes[f.ID] = layout.Node{ID: f.ID, Kind: layout.KindFolder, Expanded: f.IsExpanded}
	}
	for i := range docs {
		d := &docs[i]
		n := layout.Node{ID: d.ID, Kind: layout.KindDocument, Placeholder: d.IsPlaceholder}
		if d.FolderID != nil {
			n.Parent = *d.FolderID
			children[*d.FolderID] = append(children[*d.FolderID], d.ID)
		}
		nodes[d.ID] = n
	}

	v := &layout.View{
		Root:         ReconcileRootOrder(order.ItemIDs, folders, docs),
		Nodes:        nodes,
		Children:     children,
		Heights:      map[string]float64{},
		Gap:          b.cfg.Gap,
		HeaderHeight: b.cfg.FolderHeaderHeight,
	}
	if m, ok := b.measurements.Get(collectionID); ok {
		v.Heights = m.Heights
		v.ScrollTop = m.ScrollTop
		v.ViewportHeight = m.ViewportHeight
		v.Width = m.Width
	}
	return v, nil
}

// ReconcileRootOrder merges the stored mixed order with the actual set of
// root-level items: stale ids are dropped, items missing from the stored
// order are appended sorted by their persisted position. Documents inside
// folders never appear at root.
func ReconcileRootOrder(stored []string, folders []models.Folder, docs []models.Document) []string {
	type rootItem struct {
		id       string
		position int
	}
	present := make(map[string]int)
	var missing []rootItem
	for _, f := range folders {
		present[f.ID] = f.Position
	}
	for _, d := range docs {
		if d.RootLevel() {
			present[d.ID] = d.Position
		}
	}

	order := make([]string, 0, len(present))
	seen := make(map[string]bool, len(stored))
	for _, id := range stored {
		if _, ok := present[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for id, pos := range present {
		if !seen[id] {
			missing = append(missing, rootItem{id: id, position: pos})
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].position != missing[j].position {
			return missing[i].position < missing[j].position
		}
		return missing[i].id < missing[j].id
	})
	for _, it := range missing {
		order = append(order, it.id)
	}
	return order
}
