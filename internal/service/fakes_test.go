package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"binder/internal/domain"
	"binder/internal/domain/models"
	"binder/internal/domain/repositories"
)

// memStore is a shared in-memory backing for the repository fakes, so one
// store wires a whole service graph.
type memStore struct {
	mu          sync.Mutex
	collections map[string]*models.Collection
	folders     map[string]*models.Folder
	docs        map[string]*models.Document
	order       map[string][]string // collection id -> root order
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		collections: make(map[string]*models.Collection),
		folders:     make(map[string]*models.Folder),
		docs:        make(map[string]*models.Document),
		order:       make(map[string][]string),
	}
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *memStore) addCollection(name string) *models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Collection{ID: s.id("coll"), Name: name, OwnerID: "owner-1"}
	s.collections[c.ID] = c
	return c
}

func (s *memStore) addFolder(collectionID, name string, position int, expanded bool) *models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &models.Folder{
		ID:           s.id("folder"),
		CollectionID: collectionID,
		Name:         name,
		Type:         models.FolderTypeFolder,
		IsExpanded:   expanded,
		Position:     position,
	}
	s.folders[f.ID] = f
	return f
}

func (s *memStore) addDocument(collectionID, name string, folderID *string, position int) *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &models.Document{
		ID:           s.id("doc"),
		CollectionID: collectionID,
		FolderID:     folderID,
		Name:         name,
		Position:     position,
	}
	s.docs[d.ID] = d
	return d
}

func (s *memStore) setOrder(collectionID string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order[collectionID] = append([]string(nil), ids...)
}

func (s *memStore) rootOrder(collectionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order[collectionID]...)
}

type fakeCollectionRepo struct{ store *memStore }

func (r *fakeCollectionRepo) Create(ctx context.Context, c *models.Collection) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c.ID = r.store.id("coll")
	r.store.collections[c.ID] = c
	return nil
}

func (r *fakeCollectionRepo) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.collections[id]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (r *fakeCollectionRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Collection, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Collection
	for _, c := range r.store.collections {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCollectionRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.collections, id)
	return nil
}

type fakeFolderRepo struct{ store *memStore }

func (r *fakeFolderRepo) Create(ctx context.Context, f *models.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f.ID = r.store.id("folder")
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	clone := *f
	r.store.folders[f.ID] = &clone
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, collectionID string) (*models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.folders[id]
	if !ok || f.CollectionID != collectionID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	clone := *f
	return &clone, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, f *models.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.folders[f.ID]; !ok {
		return fmt.Errorf("folder %s: %w", f.ID, domain.ErrNotFound)
	}
	clone := *f
	r.store.folders[f.ID] = &clone
	return nil
}

func (r *fakeFolderRepo) SetExpanded(ctx context.Context, id, collectionID string, expanded bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.folders[id]
	if !ok || f.CollectionID != collectionID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	f.IsExpanded = expanded
	return nil
}

func (r *fakeFolderRepo) SetPositions(ctx context.Context, collectionID string, orderedIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, id := range orderedIDs {
		if f, ok := r.store.folders[id]; ok && f.CollectionID == collectionID {
			f.Position = i
		}
	}
	return nil
}

func (r *fakeFolderRepo) ListByCollection(ctx context.Context, collectionID string) ([]models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Folder
	for _, f := range r.store.folders {
		if f.CollectionID == collectionID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, collectionID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.folders[id]
	if !ok || f.CollectionID != collectionID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	for _, d := range r.store.docs {
		if d.FolderID != nil && *d.FolderID == id {
			return &domain.ConflictError{Message: "cannot delete folder with documents", ResourceType: "folder", ResourceID: id}
		}
	}
	delete(r.store.folders, id)
	return nil
}

type fakeDocumentRepo struct{ store *memStore }

func (r *fakeDocumentRepo) Create(ctx context.Context, d *models.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d.ID = r.store.id("doc")
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	clone := *d
	r.store.docs[d.ID] = &clone
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id, collectionID string) (*models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.docs[id]
	if !ok || d.CollectionID != collectionID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	clone := *d
	return &clone, nil
}

func (r *fakeDocumentRepo) Move(ctx context.Context, id, collectionID string, folderID *string, position int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.docs[id]
	if !ok || d.CollectionID != collectionID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	d.FolderID = folderID
	d.Position = position
	return nil
}

func (r *fakeDocumentRepo) SetPositions(ctx context.Context, collectionID string, orderedIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, id := range orderedIDs {
		if d, ok := r.store.docs[id]; ok && d.CollectionID == collectionID {
			d.Position = i
		}
	}
	return nil
}

func (r *fakeDocumentRepo) ListByFolder(ctx context.Context, folderID, collectionID string) ([]models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Document
	for _, d := range r.store.docs {
		if d.CollectionID == collectionID && d.FolderID != nil && *d.FolderID == folderID {
			out = append(out, *d)
		}
	}
	sortDocs(out)
	return out, nil
}

func (r *fakeDocumentRepo) ListByCollection(ctx context.Context, collectionID string) ([]models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Document
	for _, d := range r.store.docs {
		if d.CollectionID == collectionID {
			out = append(out, *d)
		}
	}
	sortDocs(out)
	return out, nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id, collectionID string) (*models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.docs[id]
	if !ok || d.CollectionID != collectionID {
		return nil, nil
	}
	delete(r.store.docs, id)
	clone := *d
	return &clone, nil
}

func sortDocs(docs []models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Position != docs[j].Position {
			return docs[i].Position < docs[j].Position
		}
		return docs[i].ID < docs[j].ID
	})
}

type fakeOrderRepo struct{ store *memStore }

func (r *fakeOrderRepo) Get(ctx context.Context, collectionID string) (*models.MixedOrder, error) {
	return &models.MixedOrder{
		CollectionID: collectionID,
		ItemIDs:      r.store.rootOrder(collectionID),
	}, nil
}

func (r *fakeOrderRepo) Set(ctx context.Context, collectionID string, itemIDs []string) error {
	r.store.setOrder(collectionID, itemIDs...)
	return nil
}

// fakeTxManager runs the function directly; the fakes have no
// transactional semantics to coordinate.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fixture bundles a wired store and repos for service tests.
type fixture struct {
	store       *memStore
	collections *fakeCollectionRepo
	folders     *fakeFolderRepo
	documents   *fakeDocumentRepo
	orders      *fakeOrderRepo
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:       store,
		collections: &fakeCollectionRepo{store: store},
		folders:     &fakeFolderRepo{store: store},
		documents:   &fakeDocumentRepo{store: store},
		orders:      &fakeOrderRepo{store: store},
	}
}
