package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"binder/internal/config"
	"binder/internal/domain"
	"binder/internal/domain/models"
	"binder/internal/domain/repositories"
	"binder/internal/domain/services"
	"binder/internal/engine/dropzone"
	"binder/internal/engine/layout"
)

// organizeTimeout bounds the organizer follow-up calls that run detached
// from the drop request.
const organizeTimeout = 30 * time.Second

type dropService struct {
	views        *ViewBuilder
	workspace    services.WorkspaceService
	documentRepo repositories.DocumentRepository
	reorganize   services.ReorganizeService
	organizer    services.OrganizerClient
	cfg          config.EngineConfig
	logger       *slog.Logger
}

// NewDropService creates the external drop service.
func NewDropService(
	views *ViewBuilder,
	workspace services.WorkspaceService,
	documentRepo repositories.DocumentRepository,
	reorganize services.ReorganizeService,
	organizer services.OrganizerClient,
	cfg config.EngineConfig,
	logger *slog.Logger,
) services.DropService {
	return &dropService{
		views:        views,
		workspace:    workspace,
		documentRepo: documentRepo,
		reorganize:   reorganize,
		organizer:    organizer,
		cfg:          cfg,
		logger:       logger,
	}
}

// ResolveTarget maps a drop point to the placeholder, folder or root index
// it would land on. Kind is TargetNone while the view is unmeasured.
func (s *dropService) ResolveTarget(ctx context.Context, collectionID string, at layout.Point) (dropzone.Target, error) {
	v, err := s.views.Build(ctx, collectionID)
	if err != nil {
		return dropzone.Target{}, err
	}
	return dropzone.Resolve(v, at, dropzone.Config{FolderPad: s.cfg.FolderPad}), nil
}

// ExecuteDrop resolves the target and creates one document per dropped
// file at consecutive indices from it. Creation fans out concurrently; the
// result carries the documents that were created even when some fail.
func (s *dropService) ExecuteDrop(ctx context.Context, req *services.ExternalDropRequest) (*services.ExternalDropResult, error) {
	if err := s.validateDrop(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	target, err := s.ResolveTarget(ctx, req.CollectionID, req.At)
	if err != nil {
		return nil, err
	}

	var folderID *string
	base := target.Index

	switch target.Kind {
	case dropzone.TargetNone:
		return nil, fmt.Errorf("%w: sidebar has no measurements yet, report measurements and retry", domain.ErrValidation)

	case dropzone.TargetPlaceholder:
		if len(req.Files) != 1 {
			return nil, fmt.Errorf("%w: a placeholder accepts exactly one file, got %d", domain.ErrValidation, len(req.Files))
		}
		// The file takes the placeholder's exact slot.
		ph, err := s.documentRepo.GetByID(ctx, target.PlaceholderID, req.CollectionID)
		if err != nil {
			return nil, fmt.Errorf("placeholder document: %w", err)
		}
		folderID = ph.FolderID
		base, err = s.placeholderSlot(ctx, req.CollectionID, ph)
		if err != nil {
			return nil, err
		}
		if _, err := s.workspace.DeleteDocument(ctx, ph.ID, req.CollectionID); err != nil {
			return nil, fmt.Errorf("replacing placeholder: %w", err)
		}

	case dropzone.TargetFolder:
		id := target.FolderID
		folderID = &id

	case dropzone.TargetRoot:
	}

	docs, err := s.createBatch(ctx, req, folderID, base)
	result := &services.ExternalDropResult{Target: target, Documents: docs}
	if err != nil {
		return result, err
	}
	if err := s.pinBatchOrder(ctx, req.CollectionID, folderID, base, docs); err != nil {
		return result, err
	}

	s.logger.Info("external drop executed",
		"collection_id", req.CollectionID,
		"target", target.Kind.String(),
		"files", len(req.Files),
		"base_index", base,
	)

	s.followUp(req.CollectionID, target, docs)
	return result, nil
}

// placeholderSlot is the index the replacement lands at. Inside a folder
// the sibling position is the folder index. At root, document positions
// are dense per type and skip folders, so the slot is the placeholder's
// index in the mixed order, not its stored position.
func (s *dropService) placeholderSlot(ctx context.Context, collectionID string, ph *models.Document) (int, error) {
	if ph.FolderID != nil {
		return ph.Position, nil
	}
	v, err := s.views.Build(ctx, collectionID)
	if err != nil {
		return 0, err
	}
	if idx := indexOf(v.Root, ph.ID); idx >= 0 {
		return idx, nil
	}
	return ph.Position, nil
}

// createBatch fans the per-file creation out concurrently. Indices are
// pre-resolved as base+k so the batch keeps its drop order regardless of
// which creation finishes first.
func (s *dropService) createBatch(ctx context.Context, req *services.ExternalDropRequest, folderID *string, base int) ([]*models.Document, error) {
	created := make([]*models.Document, len(req.Files))
	errs := make([]error, len(req.Files))

	var wg sync.WaitGroup
	for k := range req.Files {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			doc, err := s.workspace.CreateDocument(ctx, &services.CreateDocumentRequest{
				CollectionID: req.CollectionID,
				Name:         req.Files[k].Name,
				FolderID:     folderID,
				Position:     base + k,
			})
			if err != nil {
				errs[k] = fmt.Errorf("creating %q: %w", req.Files[k].Name, err)
				return
			}
			created[k] = doc
		}(k)
	}
	wg.Wait()

	docs := make([]*models.Document, 0, len(created))
	for _, d := range created {
		if d != nil {
			docs = append(docs, d)
		}
	}
	return docs, errors.Join(errs...)
}

// pinBatchOrder re-splices the whole batch at its resolved index in one
// pass. The concurrent creations each splice independently, so their
// interleaving can scramble the batch; this pins the drop order.
func (s *dropService) pinBatchOrder(ctx context.Context, collectionID string, folderID *string, base int, docs []*models.Document) error {
	if len(docs) < 2 {
		return nil
	}
	block := make([]string, len(docs))
	batch := make(map[string]bool, len(docs))
	for i, d := range docs {
		block[i] = d.ID
		batch[d.ID] = true
	}

	if folderID != nil {
		children, err := s.documentRepo.ListByFolder(ctx, *folderID, collectionID)
		if err != nil {
			return err
		}
		order := make([]string, 0, len(children))
		for _, id := range documentIDs(children) {
			if !batch[id] {
				order = append(order, id)
			}
		}
		return s.workspace.ReorderDocuments(ctx, *folderID, collectionID, insertIDs(order, block, base))
	}

	v, err := s.views.Build(ctx, collectionID)
	if err != nil {
		return err
	}
	order := make([]string, 0, len(v.Root))
	for _, id := range v.Root {
		if !batch[id] {
			order = append(order, id)
		}
	}
	return s.workspace.UpdateMixedOrder(ctx, collectionID, insertIDs(order, block, base))
}

// followUp kicks off the organizer calls a drop triggers: a targeted drop
// into a folder records the user's choice, an untargeted drop asks for a
// placement suggestion per document. Both run detached from the request.
func (s *dropService) followUp(collectionID string, target dropzone.Target, docs []*models.Document) {
	if s.organizer == nil || len(docs) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), organizeTimeout)
		defer cancel()
		for _, doc := range docs {
			var err error
			if target.Kind == dropzone.TargetFolder {
				err = s.organizer.NotifyTargetedDrop(ctx, collectionID, doc.ID, target.FolderID)
			} else {
				err = s.reorganize.AutoOrganize(ctx, doc.ID, collectionID)
			}
			if err != nil {
				s.logger.Warn("organizer follow-up failed",
					"collection_id", collectionID,
					"document_id", doc.ID,
					"error", err,
				)
			}
		}
	}()
}

func (s *dropService) validateDrop(req *services.ExternalDropRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.CollectionID, validation.Required),
		validation.Field(&req.Files, validation.Required, validation.Length(1, config.MaxDropBatchSize)),
	); err != nil {
		return err
	}
	for i := range req.Files {
		if req.Files[i].Name == "" {
			return fmt.Errorf("file %d has no name", i)
		}
	}
	return nil
}
