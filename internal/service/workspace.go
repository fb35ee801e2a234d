package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"binder/internal/config"
	"binder/internal/domain"
	"binder/internal/domain/models"
	"binder/internal/domain/repositories"
	"binder/internal/domain/services"
	"binder/internal/engine/drag"
)

type workspaceService struct {
	collectionRepo repositories.CollectionRepository
	folderRepo     repositories.FolderRepository
	documentRepo   repositories.DocumentRepository
	orderRepo      repositories.OrderRepository
	txManager      repositories.TransactionManager
	notifier       services.Notifier
	logger         *slog.Logger
}

// NewWorkspaceService creates the workspace mutation service.
func NewWorkspaceService(
	collectionRepo repositories.CollectionRepository,
	folderRepo repositories.FolderRepository,
	documentRepo repositories.DocumentRepository,
	orderRepo repositories.OrderRepository,
	txManager repositories.TransactionManager,
	notifier services.Notifier,
	logger *slog.Logger,
) services.WorkspaceService {
	return &workspaceService{
		collectionRepo: collectionRepo,
		folderRepo:     folderRepo,
		documentRepo:   documentRepo,
		orderRepo:      orderRepo,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
	}
}

// CreateCollection creates an empty collection for an owner.
func (s *workspaceService) CreateCollection(ctx context.Context, ownerID, name string) (*models.Collection, error) {
	if err := validation.Validate(name, validation.Required, validation.Length(1, config.MaxCollectionNameLength)); err != nil {
		return nil, fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}
	collection := &models.Collection{
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	s.logger.Info("collection created", "id", collection.ID, "name", name, "owner_id", ownerID)
	return collection, nil
}

// ListCollections returns an owner's collections.
func (s *workspaceService) ListCollections(ctx context.Context, ownerID string) ([]models.Collection, error) {
	return s.collectionRepo.ListByOwner(ctx, ownerID)
}

// DeleteCollection removes a collection. Contained folders and documents
// go with it via the schema's cascading deletes.
func (s *workspaceService) DeleteCollection(ctx context.Context, collectionID string) error {
	if _, err := s.collectionRepo.GetByID(ctx, collectionID); err != nil {
		return err
	}
	if err := s.collectionRepo.Delete(ctx, collectionID); err != nil {
		return err
	}
	s.logger.Info("collection deleted", "id", collectionID)
	return nil
}

// GetTree assembles the sidebar tree: root items in mixed order, folder
// children derived from document folder ids.
func (s *workspaceService) GetTree(ctx context.Context, collectionID string) (*models.Tree, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	root, folders, docs, err := s.loadRoot(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	foldersByID := make(map[string]*models.Folder, len(folders))
	for i := range folders {
		foldersByID[folders[i].ID] = &folders[i]
	}
	docsByID := make(map[string]*models.Document, len(docs))
	children := make(map[string][]models.Document)
	for i := range docs {
		d := &docs[i]
		docsByID[d.ID] = d
		if d.FolderID != nil {
			children[*d.FolderID] = append(children[*d.FolderID], *d)
		}
	}

	items := make([]models.TreeItem, 0, len(root))
	for _, id := range root {
		if f, ok := foldersByID[id]; ok {
			items = append(items, models.TreeItem{Folder: f, Children: children[id]})
			continue
		}
		if d, ok := docsByID[id]; ok {
			items = append(items, models.TreeItem{Document: d})
		}
	}

	return &models.Tree{Collection: collection, Items: items}, nil
}

// AddFolder creates a folder and splices it into the root order at the
// requested index (appended when no position is given).
func (s *workspaceService) AddFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateFolder(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder := &models.Folder{
		CollectionID: req.CollectionID,
		Name:         req.Name,
		Type:         req.Type,
		IsExpanded:   true,
		Deadline:     req.Deadline,
		Weighting:    req.Weighting,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if folder.Type == "" {
		folder.Type = models.FolderTypeFolder
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		root, folders, docs, err := s.loadRoot(ctx, req.CollectionID)
		if err != nil {
			return err
		}
		index := len(root)
		if req.Position != nil {
			index = clampIndex(*req.Position, len(root))
		}
		folder.Position = index
		if err := s.folderRepo.Create(ctx, folder); err != nil {
			return err
		}
		folders = append(folders, *folder)
		return s.persistRootOrder(ctx, req.CollectionID, insertID(root, folder.ID, index), folders, docs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"collection_id", req.CollectionID,
		"position", folder.Position,
	)
	return folder, nil
}

// DeleteFolder removes an empty folder and its root order entry. Deleting
// a folder that still has documents is a conflict.
func (s *workspaceService) DeleteFolder(ctx context.Context, folderID, collectionID string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.folderRepo.GetByID(ctx, folderID, collectionID); err != nil {
			return err
		}
		docs, err := s.documentRepo.ListByFolder(ctx, folderID, collectionID)
		if err != nil {
			return fmt.Errorf("checking folder contents: %w", err)
		}
		if len(docs) > 0 {
			return fmt.Errorf("%w: folder contains %d documents", domain.ErrConflict, len(docs))
		}
		if err := s.folderRepo.Delete(ctx, folderID, collectionID); err != nil {
			return err
		}
		root, folders, allDocs, err := s.loadRoot(ctx, collectionID)
		if err != nil {
			return err
		}
		return s.persistRootOrder(ctx, collectionID, removeID(root, folderID), folders, allDocs)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", folderID, "collection_id", collectionID)
	return nil
}

// CreateDocument inserts a document at the requested location and splices
// the surrounding order.
func (s *workspaceService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := s.validateCreateDocument(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	doc := &models.Document{
		CollectionID:  req.CollectionID,
		FolderID:      req.FolderID,
		Name:          req.Name,
		IsPlaceholder: req.IsPlaceholder,
		Label:         req.Label,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if req.FolderID != nil {
			if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.CollectionID); err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
			siblings, err := s.documentRepo.ListByFolder(ctx, *req.FolderID, req.CollectionID)
			if err != nil {
				return err
			}
			index := clampIndex(req.Position, len(siblings))
			doc.Position = index
			if err := s.documentRepo.Create(ctx, doc); err != nil {
				return err
			}
			return s.documentRepo.SetPositions(ctx, req.CollectionID, insertID(documentIDs(siblings), doc.ID, index))
		}

		root, folders, docs, err := s.loadRoot(ctx, req.CollectionID)
		if err != nil {
			return err
		}
		index := clampIndex(req.Position, len(root))
		doc.Position = index
		if err := s.documentRepo.Create(ctx, doc); err != nil {
			return err
		}
		docs = append(docs, *doc)
		return s.persistRootOrder(ctx, req.CollectionID, insertID(root, doc.ID, index), folders, docs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"collection_id", req.CollectionID,
		"folder_id", req.FolderID,
		"position", doc.Position,
	)
	return doc, nil
}

// DeleteDocument removes a document and closes the gap it leaves behind.
// Returns nil without error when the document is already gone.
func (s *workspaceService) DeleteDocument(ctx context.Context, documentID, collectionID string) (*models.Document, error) {
	var deleted *models.Document
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		doc, err := s.documentRepo.Delete(ctx, documentID, collectionID)
		if err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		deleted = doc

		if doc.FolderID != nil {
			siblings, err := s.documentRepo.ListByFolder(ctx, *doc.FolderID, collectionID)
			if err != nil {
				return err
			}
			return s.documentRepo.SetPositions(ctx, collectionID, documentIDs(siblings))
		}
		root, folders, docs, err := s.loadRoot(ctx, collectionID)
		if err != nil {
			return err
		}
		return s.persistRootOrder(ctx, collectionID, removeID(root, documentID), folders, docs)
	})
	if err != nil {
		return nil, err
	}
	if deleted != nil {
		s.logger.Info("document deleted", "id", documentID, "collection_id", collectionID)
	}
	return deleted, nil
}

// MoveDocument relocates a document between containers, resequencing both
// the source and destination orders in one transaction.
func (s *workspaceService) MoveDocument(ctx context.Context, req *services.MoveDocumentRequest) error {
	if err := s.validateMove(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		doc, err := s.documentRepo.GetByID(ctx, req.DocumentID, req.CollectionID)
		if err != nil {
			return err
		}
		if req.FolderID != nil {
			if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.CollectionID); err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
		}

		if req.FolderID != nil {
			siblings, err := s.documentRepo.ListByFolder(ctx, *req.FolderID, req.CollectionID)
			if err != nil {
				return err
			}
			order := removeID(documentIDs(siblings), req.DocumentID)
			index := clampIndex(req.Position, len(order))
			if err := s.documentRepo.Move(ctx, req.DocumentID, req.CollectionID, req.FolderID, index); err != nil {
				return err
			}
			if err := s.documentRepo.SetPositions(ctx, req.CollectionID, insertID(order, req.DocumentID, index)); err != nil {
				return err
			}
		} else {
			if err := s.documentRepo.Move(ctx, req.DocumentID, req.CollectionID, nil, req.Position); err != nil {
				return err
			}
		}

		// Close the gap left in the source container.
		if doc.FolderID != nil && (req.FolderID == nil || *doc.FolderID != *req.FolderID) {
			former, err := s.documentRepo.ListByFolder(ctx, *doc.FolderID, req.CollectionID)
			if err != nil {
				return err
			}
			if err := s.documentRepo.SetPositions(ctx, req.CollectionID, documentIDs(former)); err != nil {
				return err
			}
		}

		// Rebuild the root order: drop the document if it left the root,
		// splice it in when it arrived.
		root, folders, docs, err := s.loadRoot(ctx, req.CollectionID)
		if err != nil {
			return err
		}
		root = removeID(root, req.DocumentID)
		if req.FolderID == nil {
			root = insertID(root, req.DocumentID, clampIndex(req.Position, len(root)))
		}
		return s.persistRootOrder(ctx, req.CollectionID, root, folders, docs)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document moved",
		"id", req.DocumentID,
		"collection_id", req.CollectionID,
		"folder_id", req.FolderID,
		"position", req.Position,
	)
	return nil
}

// ReorderDocuments persists a new sibling order inside one folder. The
// order must be a permutation of the folder's current children.
func (s *workspaceService) ReorderDocuments(ctx context.Context, folderID, collectionID string, orderedIDs []string) error {
	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		siblings, err := s.documentRepo.ListByFolder(ctx, folderID, collectionID)
		if err != nil {
			return err
		}
		if !samePermutation(documentIDs(siblings), orderedIDs) {
			return fmt.Errorf("%w: order is not a permutation of folder contents", domain.ErrValidation)
		}
		return s.documentRepo.SetPositions(ctx, collectionID, orderedIDs)
	})
}

// UpdateMixedOrder persists the root interleaved order. Ids that no
// longer exist at root are dropped; root items missing from the request
// are appended, so a stale client cannot orphan anything.
func (s *workspaceService) UpdateMixedOrder(ctx context.Context, collectionID string, orderedIDs []string) error {
	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folders, docs, err := s.listStructure(ctx, collectionID)
		if err != nil {
			return err
		}
		order := ReconcileRootOrder(orderedIDs, folders, docs)
		return s.persistRootOrder(ctx, collectionID, order, folders, docs)
	})
}

// GroupDocumentsIntoFolder creates a folder from two root documents. The
// folder takes the target's slot in the root order, arrives expanded, and
// holds the target first and the dragged document second.
func (s *workspaceService) GroupDocumentsIntoFolder(ctx context.Context, req *services.GroupRequest) (*models.Folder, error) {
	if err := s.validateGroup(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder := &models.Folder{
		CollectionID: req.CollectionID,
		Name:         config.DefaultGroupFolderName,
		Type:         models.FolderTypeFolder,
		IsExpanded:   true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		target, err := s.documentRepo.GetByID(ctx, req.TargetDocumentID, req.CollectionID)
		if err != nil {
			return fmt.Errorf("target document: %w", err)
		}
		if !target.RootLevel() {
			return fmt.Errorf("%w: grouping target must be at root level", domain.ErrValidation)
		}
		if _, err := s.documentRepo.GetByID(ctx, req.DraggedDocumentID, req.CollectionID); err != nil {
			return fmt.Errorf("dragged document: %w", err)
		}

		root, folders, docs, err := s.loadRoot(ctx, req.CollectionID)
		if err != nil {
			return err
		}
		index := indexOf(root, req.TargetDocumentID)
		if index < 0 {
			index = len(root)
		}
		folder.Position = index
		if err := s.folderRepo.Create(ctx, folder); err != nil {
			return err
		}

		if err := s.documentRepo.Move(ctx, req.TargetDocumentID, req.CollectionID, &folder.ID, 0); err != nil {
			return err
		}
		if err := s.documentRepo.Move(ctx, req.DraggedDocumentID, req.CollectionID, &folder.ID, 1); err != nil {
			return err
		}

		root = insertID(removeID(root, req.TargetDocumentID), folder.ID, index)
		root = removeID(root, req.DraggedDocumentID)
		folders = append(folders, *folder)
		for i := range docs {
			if docs[i].ID == req.TargetDocumentID || docs[i].ID == req.DraggedDocumentID {
				docs[i].FolderID = &folder.ID
			}
		}
		return s.persistRootOrder(ctx, req.CollectionID, root, folders, docs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("documents grouped into folder",
		"folder_id", folder.ID,
		"target_id", req.TargetDocumentID,
		"dragged_id", req.DraggedDocumentID,
		"collection_id", req.CollectionID,
	)
	return folder, nil
}

// SetFolderExpanded flips a folder's expansion state.
func (s *workspaceService) SetFolderExpanded(ctx context.Context, folderID, collectionID string, expanded bool) error {
	return s.folderRepo.SetExpanded(ctx, folderID, collectionID, expanded)
}

// ExecuteDecision maps a resolved drop decision onto the mutation
// primitives above. A drop over the chat zone only notifies; the sidebar
// structure is untouched.
func (s *workspaceService) ExecuteDecision(ctx context.Context, collectionID string, decision drag.Decision) error {
	switch decision.Op {
	case drag.OpAddToContext:
		s.notifier.DocumentAddedToContext(ctx, collectionID, decision.ItemID)
		return nil

	case drag.OpGroup:
		_, err := s.GroupDocumentsIntoFolder(ctx, &services.GroupRequest{
			TargetDocumentID:  decision.TargetDocumentID,
			DraggedDocumentID: decision.ItemID,
			CollectionID:      collectionID,
		})
		if err != nil {
			return err
		}

	case drag.OpMoveIntoFolder:
		folderID := decision.FolderID
		err := s.MoveDocument(ctx, &services.MoveDocumentRequest{
			DocumentID:   decision.ItemID,
			CollectionID: collectionID,
			FolderID:     &folderID,
			Position:     decision.Index,
		})
		if err != nil {
			return err
		}
		// Dropping into a folder reveals its contents.
		if err := s.SetFolderExpanded(ctx, folderID, collectionID, true); err != nil {
			return err
		}

	case drag.OpMoveToRoot:
		err := s.MoveDocument(ctx, &services.MoveDocumentRequest{
			DocumentID:   decision.ItemID,
			CollectionID: collectionID,
			Position:     decision.Index,
		})
		if err != nil {
			return err
		}

	case drag.OpReorder:
		err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
			root, folders, docs, err := s.loadRoot(ctx, collectionID)
			if err != nil {
				return err
			}
			root = removeID(root, decision.ItemID)
			root = insertID(root, decision.ItemID, clampIndex(decision.Index, len(root)))
			return s.persistRootOrder(ctx, collectionID, root, folders, docs)
		})
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown drop operation %v", domain.ErrValidation, decision.Op)
	}

	if decision.RestoreExpanded {
		if err := s.SetFolderExpanded(ctx, decision.ItemID, collectionID, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *workspaceService) listStructure(ctx context.Context, collectionID string) ([]models.Folder, []models.Document, error) {
	folders, err := s.folderRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing folders: %w", err)
	}
	docs, err := s.documentRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing documents: %w", err)
	}
	return folders, docs, nil
}

func (s *workspaceService) loadRoot(ctx context.Context, collectionID string) ([]string, []models.Folder, []models.Document, error) {
	folders, docs, err := s.listStructure(ctx, collectionID)
	if err != nil {
		return nil, nil, nil, err
	}
	order, err := s.orderRepo.Get(ctx, collectionID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading mixed order: %w", err)
	}
	return ReconcileRootOrder(order.ItemIDs, folders, docs), folders, docs, nil
}

// persistRootOrder writes the mixed order and resequences root positions
// to match it. Positions are a per-type fallback for order reconciliation;
// the mixed order itself stays authoritative for interleaving.
func (s *workspaceService) persistRootOrder(ctx context.Context, collectionID string, order []string, folders []models.Folder, docs []models.Document) error {
	if err := s.orderRepo.Set(ctx, collectionID, order); err != nil {
		return err
	}

	folderSet := make(map[string]bool, len(folders))
	for i := range folders {
		folderSet[folders[i].ID] = true
	}
	rootDocSet := make(map[string]bool)
	for i := range docs {
		if docs[i].RootLevel() {
			rootDocSet[docs[i].ID] = true
		}
	}

	var folderIDs, docIDs []string
	for _, id := range order {
		switch {
		case folderSet[id]:
			folderIDs = append(folderIDs, id)
		case rootDocSet[id]:
			docIDs = append(docIDs, id)
		}
	}
	if err := s.folderRepo.SetPositions(ctx, collectionID, folderIDs); err != nil {
		return err
	}
	return s.documentRepo.SetPositions(ctx, collectionID, docIDs)
}

func (s *workspaceService) validateCreateFolder(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CollectionID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
		validation.Field(&req.Type, validation.In(models.FolderTypeFolder, models.FolderTypeAssignment)),
		validation.Field(&req.Weighting, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (s *workspaceService) validateCreateDocument(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CollectionID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxDocumentNameLength)),
		validation.Field(&req.Position, validation.Min(0)),
	)
}

func (s *workspaceService) validateMove(req *services.MoveDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.CollectionID, validation.Required),
		validation.Field(&req.Position, validation.Min(0)),
	)
}

func (s *workspaceService) validateGroup(req *services.GroupRequest) error {
	if req.TargetDocumentID == req.DraggedDocumentID {
		return fmt.Errorf("cannot group a document with itself")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.TargetDocumentID, validation.Required),
		validation.Field(&req.DraggedDocumentID, validation.Required),
		validation.Field(&req.CollectionID, validation.Required),
	)
}

func documentIDs(docs []models.Document) []string {
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
	}
	return ids
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertID(ids []string, id string, index int) []string {
	return insertIDs(ids, []string{id}, index)
}

func insertIDs(ids []string, block []string, index int) []string {
	index = clampIndex(index, len(ids))
	out := make([]string, 0, len(ids)+len(block))
	out = append(out, ids[:index]...)
	out = append(out, block...)
	out = append(out, ids[index:]...)
	return out
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}
