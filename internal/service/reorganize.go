package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"binder/internal/config"
	"binder/internal/domain"
	"binder/internal/domain/repositories"
	"binder/internal/domain/services"
	"binder/internal/engine/anim"
	"binder/internal/engine/reorg"
)

// appendPosition is clamped to the container's length by the workspace
// service, so it always appends.
const appendPosition = 1 << 30

type reorganizeService struct {
	collectionRepo repositories.CollectionRepository
	folderRepo     repositories.FolderRepository
	documentRepo   repositories.DocumentRepository
	workspace      services.WorkspaceService
	organizer      services.OrganizerClient
	clock          anim.Clock
	cfg            config.EngineConfig
	logger         *slog.Logger
}

// NewReorganizeService creates the reorganization pipeline. A nil clock
// runs animations on the wall clock.
func NewReorganizeService(
	collectionRepo repositories.CollectionRepository,
	folderRepo repositories.FolderRepository,
	documentRepo repositories.DocumentRepository,
	workspace services.WorkspaceService,
	organizer services.OrganizerClient,
	clock anim.Clock,
	cfg config.EngineConfig,
	logger *slog.Logger,
) services.ReorganizeService {
	return &reorganizeService{
		collectionRepo: collectionRepo,
		folderRepo:     folderRepo,
		documentRepo:   documentRepo,
		workspace:      workspace,
		organizer:      organizer,
		clock:          clock,
		cfg:            cfg,
		logger:         logger,
	}
}

// Reorganize asks the organizer for a full-collection layout and applies
// it through the animation phases.
func (s *reorganizeService) Reorganize(ctx context.Context, collectionID string) (*services.ReorganizeResult, error) {
	if s.organizer == nil {
		return nil, fmt.Errorf("%w: organizer not configured", domain.ErrValidation)
	}

	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	ops, err := s.organizer.SuggestReorganization(ctx, collectionID, collection.Name)
	if err != nil {
		return nil, fmt.Errorf("requesting reorganization: %w", err)
	}

	return s.ApplyOperations(ctx, collectionID, ops)
}

// ApplyOperations diffs an operation payload against current structure and
// applies the effective remainder: exit, apply (create, move, delete, in
// that order), staggered enter. A payload that collapses to a no-op
// returns unapplied without touching storage.
func (s *reorganizeService) ApplyOperations(ctx context.Context, collectionID string, ops *reorg.Operations) (*services.ReorganizeResult, error) {
	if err := validateOperations(ops); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	current, err := s.loadCurrent(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	diff, err := reorg.Compute(current, *ops)
	if err != nil {
		return nil, err
	}
	if diff.Empty() {
		s.logger.Info("reorganization is a no-op", "collection_id", collectionID)
		return &services.ReorganizeResult{Operations: ops, Timeline: &anim.Timeline{}}, nil
	}

	mutator := &workspaceMutator{workspace: s.workspace, collectionID: collectionID}
	orch := anim.New(s.clock, anim.Config{
		ExitDuration:  s.cfg.ExitDuration,
		EnterDuration: s.cfg.EnterDuration,
		Stagger:       s.cfg.Stagger,
	})

	timeline, err := orch.Run(ctx, diff, func(ctx context.Context) ([]string, error) {
		return reorg.Apply(ctx, mutator, diff)
	})
	if err != nil {
		return nil, fmt.Errorf("applying reorganization: %w", err)
	}

	s.logger.Info("reorganization applied",
		"collection_id", collectionID,
		"creates", len(diff.CreatingFolders),
		"moves", len(diff.Moves),
		"deletes", len(diff.DeletingFolderIDs),
		"total", timeline.Total,
	)
	return &services.ReorganizeResult{
		Operations:     ops,
		Timeline:       timeline,
		Applied:        true,
		RemeasureAfter: timeline.Total + s.cfg.RemeasureDelay,
	}, nil
}

// AutoOrganize asks the organizer where one document belongs and moves it
// there, creating the folder when it does not exist yet. A nil suggestion
// leaves the document in place.
func (s *reorganizeService) AutoOrganize(ctx context.Context, documentID, collectionID string) error {
	if s.organizer == nil {
		return nil
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID, collectionID)
	if err != nil {
		return err
	}

	name, err := s.organizer.SuggestPlacement(ctx, collectionID, doc.Name)
	if err != nil {
		return fmt.Errorf("requesting placement: %w", err)
	}
	if name == nil || *name == "" {
		return nil
	}

	folderID, err := s.folderIDByName(ctx, collectionID, *name)
	if err != nil {
		return err
	}

	if err := s.workspace.MoveDocument(ctx, &services.MoveDocumentRequest{
		DocumentID:   documentID,
		CollectionID: collectionID,
		FolderID:     &folderID,
		Position:     appendPosition,
	}); err != nil {
		return err
	}

	s.logger.Info("document auto-organized",
		"document_id", documentID,
		"collection_id", collectionID,
		"folder", *name,
	)
	return nil
}

// NotifyTargetedDrop forwards a deliberate into-folder drop to the
// organizer so future suggestions respect the user's choice.
func (s *reorganizeService) NotifyTargetedDrop(ctx context.Context, documentID, folderID, collectionID string) error {
	if s.organizer == nil {
		return nil
	}
	if err := s.organizer.NotifyTargetedDrop(ctx, collectionID, documentID, folderID); err != nil {
		return fmt.Errorf("notifying targeted drop: %w", err)
	}
	return nil
}

// folderIDByName finds an existing folder case-insensitively, creating it
// when the suggestion names a folder that does not exist yet.
func (s *reorganizeService) folderIDByName(ctx context.Context, collectionID, name string) (string, error) {
	folders, err := s.folderRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return "", err
	}
	for i := range folders {
		if strings.EqualFold(folders[i].Name, name) {
			return folders[i].ID, nil
		}
	}
	folder, err := s.workspace.AddFolder(ctx, &services.CreateFolderRequest{
		CollectionID: collectionID,
		Name:         name,
	})
	if err != nil {
		return "", err
	}
	return folder.ID, nil
}

func (s *reorganizeService) loadCurrent(ctx context.Context, collectionID string) (reorg.Current, error) {
	folders, err := s.folderRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return reorg.Current{}, fmt.Errorf("listing folders: %w", err)
	}
	docs, err := s.documentRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return reorg.Current{}, fmt.Errorf("listing documents: %w", err)
	}

	current := reorg.Current{
		FolderIDs:       make([]string, 0, len(folders)),
		DocumentFolders: make(map[string]*string, len(docs)),
	}
	for i := range folders {
		current.FolderIDs = append(current.FolderIDs, folders[i].ID)
	}
	for i := range docs {
		current.DocumentFolders[docs[i].ID] = docs[i].FolderID
	}
	return current, nil
}

// workspaceMutator adapts the workspace primitives to the reorganization
// apply loop. Creates append at the end of the root order; moved documents
// append inside their target folder.
type workspaceMutator struct {
	workspace    services.WorkspaceService
	collectionID string
}

func (m *workspaceMutator) CreateFolder(ctx context.Context, name string) (string, error) {
	folder, err := m.workspace.AddFolder(ctx, &services.CreateFolderRequest{
		CollectionID: m.collectionID,
		Name:         name,
	})
	if err != nil {
		return "", err
	}
	return folder.ID, nil
}

func (m *workspaceMutator) MoveDocument(ctx context.Context, documentID string, folderID *string) error {
	return m.workspace.MoveDocument(ctx, &services.MoveDocumentRequest{
		DocumentID:   documentID,
		CollectionID: m.collectionID,
		FolderID:     folderID,
		Position:     appendPosition,
	})
}

func (m *workspaceMutator) DeleteFolder(ctx context.Context, folderID string) error {
	return m.workspace.DeleteFolder(ctx, folderID, m.collectionID)
}

func validateOperations(ops *reorg.Operations) error {
	if ops == nil {
		return fmt.Errorf("missing operations payload")
	}
	for i, name := range ops.FoldersToCreate {
		if name == "" || len(name) > config.MaxFolderNameLength {
			return fmt.Errorf("foldersToCreate[%d]: invalid folder name", i)
		}
	}
	for i, mv := range ops.DocumentsToMove {
		if mv.DocumentID == "" {
			return fmt.Errorf("documentsToMove[%d]: missing document id", i)
		}
	}
	for i, id := range ops.FoldersToDelete {
		if id == "" {
			return fmt.Errorf("foldersToDelete[%d]: missing folder id", i)
		}
	}
	return nil
}
