package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"binder/internal/domain"
	"binder/internal/domain/models"
	"binder/internal/domain/services"
	"binder/internal/engine/drag"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sidebar is the common scenario: a root document, an expanded folder
// with two children, and a second root document.
type sidebar struct {
	coll    *models.Collection
	docA    *models.Document
	folderF *models.Folder
	x, y    *models.Document
	docB    *models.Document
}

func seedSidebar(f *fixture) sidebar {
	coll := f.store.addCollection("Biology 101")
	docA := f.store.addDocument(coll.ID, "Syllabus", nil, 0)
	folderF := f.store.addFolder(coll.ID, "Week 1", 1, true)
	x := f.store.addDocument(coll.ID, "Lecture 1", &folderF.ID, 0)
	y := f.store.addDocument(coll.ID, "Lecture 2", &folderF.ID, 1)
	docB := f.store.addDocument(coll.ID, "Notes", nil, 2)
	f.store.setOrder(coll.ID, docA.ID, folderF.ID, docB.ID)
	return sidebar{coll: coll, docA: docA, folderF: folderF, x: x, y: y, docB: docB}
}

func newTestWorkspace(f *fixture) (services.WorkspaceService, *EventNotifier) {
	notifier := NewEventNotifier(testLogger())
	ws := NewWorkspaceService(f.collections, f.folders, f.documents, f.orders, fakeTxManager{}, notifier, testLogger())
	return ws, notifier
}

func folderDocIDs(t *testing.T, f *fixture, folderID, collectionID string) []string {
	t.Helper()
	docs, err := f.documents.ListByFolder(context.Background(), folderID, collectionID)
	if err != nil {
		t.Fatalf("ListByFolder: %v", err)
	}
	return documentIDs(docs)
}

func TestAddFolderSplicesRootOrder(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	pos := 1
	folder, err := ws.AddFolder(context.Background(), &services.CreateFolderRequest{
		CollectionID: sb.coll.ID,
		Name:         "Week 2",
		Position:     &pos,
	})
	if err != nil {
		t.Fatalf("AddFolder: %v", err)
	}
	if folder.Type != models.FolderTypeFolder {
		t.Errorf("Type = %q, want default %q", folder.Type, models.FolderTypeFolder)
	}
	if !folder.IsExpanded {
		t.Error("new folder should be expanded")
	}

	want := []string{sb.docA.ID, folder.ID, sb.folderF.ID, sb.docB.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, want) {
		t.Errorf("root order = %v, want %v", got, want)
	}
}

func TestAddFolderValidation(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	_, err := ws.AddFolder(context.Background(), &services.CreateFolderRequest{
		CollectionID: sb.coll.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("AddFolder without name: err = %v, want ErrValidation", err)
	}
}

func TestGroupDocumentsIntoFolder(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	folder, err := ws.GroupDocumentsIntoFolder(context.Background(), &services.GroupRequest{
		TargetDocumentID:  sb.docA.ID,
		DraggedDocumentID: sb.docB.ID,
		CollectionID:      sb.coll.ID,
	})
	if err != nil {
		t.Fatalf("GroupDocumentsIntoFolder: %v", err)
	}

	if !folder.IsExpanded {
		t.Error("group folder should arrive expanded")
	}
	// The folder takes the target's former slot; the dragged document's
	// root entry disappears.
	wantOrder := []string{folder.ID, sb.folderF.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("root order = %v, want %v", got, wantOrder)
	}
	// Target first, dragged second.
	wantKids := []string{sb.docA.ID, sb.docB.ID}
	if got := folderDocIDs(t, f, folder.ID, sb.coll.ID); !reflect.DeepEqual(got, wantKids) {
		t.Errorf("folder children = %v, want %v", got, wantKids)
	}
}

func TestGroupRequiresRootLevelTarget(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	_, err := ws.GroupDocumentsIntoFolder(context.Background(), &services.GroupRequest{
		TargetDocumentID:  sb.x.ID, // inside folderF
		DraggedDocumentID: sb.docB.ID,
		CollectionID:      sb.coll.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestMoveDocumentIntoFolder(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	err := ws.MoveDocument(context.Background(), &services.MoveDocumentRequest{
		DocumentID:   sb.docB.ID,
		CollectionID: sb.coll.ID,
		FolderID:     &sb.folderF.ID,
		Position:     1,
	})
	if err != nil {
		t.Fatalf("MoveDocument: %v", err)
	}

	wantKids := []string{sb.x.ID, sb.docB.ID, sb.y.ID}
	if got := folderDocIDs(t, f, sb.folderF.ID, sb.coll.ID); !reflect.DeepEqual(got, wantKids) {
		t.Errorf("folder children = %v, want %v", got, wantKids)
	}
	wantOrder := []string{sb.docA.ID, sb.folderF.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("root order = %v, want %v", got, wantOrder)
	}
}

func TestMoveDocumentToRoot(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	err := ws.MoveDocument(context.Background(), &services.MoveDocumentRequest{
		DocumentID:   sb.x.ID,
		CollectionID: sb.coll.ID,
		Position:     0,
	})
	if err != nil {
		t.Fatalf("MoveDocument: %v", err)
	}

	wantOrder := []string{sb.x.ID, sb.docA.ID, sb.folderF.ID, sb.docB.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("root order = %v, want %v", got, wantOrder)
	}
	// The vacated folder closes its gap.
	wantKids := []string{sb.y.ID}
	if got := folderDocIDs(t, f, sb.folderF.ID, sb.coll.ID); !reflect.DeepEqual(got, wantKids) {
		t.Errorf("folder children = %v, want %v", got, wantKids)
	}
	if f.store.docs[sb.y.ID].Position != 0 {
		t.Errorf("remaining child position = %d, want 0", f.store.docs[sb.y.ID].Position)
	}
}

func TestDeleteFolder(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	// Non-empty folders refuse deletion.
	err := ws.DeleteFolder(context.Background(), sb.folderF.ID, sb.coll.ID)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("deleting non-empty folder: err = %v, want ErrConflict", err)
	}

	empty := f.store.addFolder(sb.coll.ID, "Empty", 3, false)
	f.store.setOrder(sb.coll.ID, sb.docA.ID, sb.folderF.ID, sb.docB.ID, empty.ID)

	if err := ws.DeleteFolder(context.Background(), empty.ID, sb.coll.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	wantOrder := []string{sb.docA.ID, sb.folderF.ID, sb.docB.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("root order = %v, want %v", got, wantOrder)
	}
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	// Folder child: siblings resequence.
	doc, err := ws.DeleteDocument(context.Background(), sb.x.ID, sb.coll.ID)
	if err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if doc == nil || doc.ID != sb.x.ID {
		t.Fatalf("deleted = %v, want %s", doc, sb.x.ID)
	}
	if f.store.docs[sb.y.ID].Position != 0 {
		t.Errorf("sibling position = %d, want 0", f.store.docs[sb.y.ID].Position)
	}

	// Root document: the order entry goes too.
	if _, err := ws.DeleteDocument(context.Background(), sb.docA.ID, sb.coll.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	wantOrder := []string{sb.folderF.ID, sb.docB.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("root order = %v, want %v", got, wantOrder)
	}

	// Already gone: nil, nil.
	doc, err = ws.DeleteDocument(context.Background(), "doc-999", sb.coll.ID)
	if err != nil || doc != nil {
		t.Errorf("DeleteDocument(absent) = (%v, %v), want (nil, nil)", doc, err)
	}
}

func TestUpdateMixedOrderReconciles(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	// Stale id dropped, missing root item appended.
	err := ws.UpdateMixedOrder(context.Background(), sb.coll.ID, []string{sb.docB.ID, "ghost", sb.docA.ID})
	if err != nil {
		t.Fatalf("UpdateMixedOrder: %v", err)
	}
	want := []string{sb.docB.ID, sb.docA.ID, sb.folderF.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, want) {
		t.Errorf("root order = %v, want %v", got, want)
	}
}

func TestReorderDocumentsRejectsNonPermutation(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	err := ws.ReorderDocuments(context.Background(), sb.folderF.ID, sb.coll.ID, []string{sb.x.ID})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("partial order: err = %v, want ErrValidation", err)
	}

	if err := ws.ReorderDocuments(context.Background(), sb.folderF.ID, sb.coll.ID, []string{sb.y.ID, sb.x.ID}); err != nil {
		t.Fatalf("ReorderDocuments: %v", err)
	}
	want := []string{sb.y.ID, sb.x.ID}
	if got := folderDocIDs(t, f, sb.folderF.ID, sb.coll.ID); !reflect.DeepEqual(got, want) {
		t.Errorf("folder children = %v, want %v", got, want)
	}
}

func TestExecuteDecisionMoveIntoFolderExpands(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	if err := f.folders.SetExpanded(context.Background(), sb.folderF.ID, sb.coll.ID, false); err != nil {
		t.Fatal(err)
	}

	err := ws.ExecuteDecision(context.Background(), sb.coll.ID, drag.Decision{
		Op:       drag.OpMoveIntoFolder,
		ItemID:   sb.docB.ID,
		FolderID: sb.folderF.ID,
		Index:    0,
	})
	if err != nil {
		t.Fatalf("ExecuteDecision: %v", err)
	}

	wantKids := []string{sb.docB.ID, sb.x.ID, sb.y.ID}
	if got := folderDocIDs(t, f, sb.folderF.ID, sb.coll.ID); !reflect.DeepEqual(got, wantKids) {
		t.Errorf("folder children = %v, want %v", got, wantKids)
	}
	if !f.store.folders[sb.folderF.ID].IsExpanded {
		t.Error("target folder should be expanded after the drop")
	}
}

func TestExecuteDecisionReorderRestoresExpansion(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	// Dragging collapses the folder; the decision restores it.
	if err := f.folders.SetExpanded(context.Background(), sb.folderF.ID, sb.coll.ID, false); err != nil {
		t.Fatal(err)
	}

	err := ws.ExecuteDecision(context.Background(), sb.coll.ID, drag.Decision{
		Op:              drag.OpReorder,
		ItemID:          sb.folderF.ID,
		Index:           2,
		RestoreExpanded: true,
	})
	if err != nil {
		t.Fatalf("ExecuteDecision: %v", err)
	}

	wantOrder := []string{sb.docA.ID, sb.docB.ID, sb.folderF.ID}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("root order = %v, want %v", got, wantOrder)
	}
	if !f.store.folders[sb.folderF.ID].IsExpanded {
		t.Error("folder expansion should be restored after the drop")
	}
}

func TestExecuteDecisionAddToContextOnlyNotifies(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, notifier := newTestWorkspace(f)

	events, cancel := notifier.Subscribe()
	defer cancel()

	before := f.store.rootOrder(sb.coll.ID)
	err := ws.ExecuteDecision(context.Background(), sb.coll.ID, drag.Decision{
		Op:     drag.OpAddToContext,
		ItemID: sb.docA.ID,
	})
	if err != nil {
		t.Fatalf("ExecuteDecision: %v", err)
	}

	select {
	case ev := <-events:
		if ev.DocumentID != sb.docA.ID || ev.CollectionID != sb.coll.ID {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("expected a context event")
	}
	if got := f.store.rootOrder(sb.coll.ID); !reflect.DeepEqual(got, before) {
		t.Errorf("root order changed: %v != %v", got, before)
	}
}

func TestGetTree(t *testing.T) {
	f := newFixture()
	sb := seedSidebar(f)
	ws, _ := newTestWorkspace(f)

	tree, err := ws.GetTree(context.Background(), sb.coll.ID)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if tree.Collection.ID != sb.coll.ID {
		t.Errorf("collection = %s, want %s", tree.Collection.ID, sb.coll.ID)
	}
	if len(tree.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(tree.Items))
	}
	if tree.Items[0].Document == nil || tree.Items[0].Document.ID != sb.docA.ID {
		t.Errorf("items[0] = %+v, want document %s", tree.Items[0], sb.docA.ID)
	}
	if tree.Items[1].Folder == nil || tree.Items[1].Folder.ID != sb.folderF.ID {
		t.Fatalf("items[1] = %+v, want folder %s", tree.Items[1], sb.folderF.ID)
	}
	kids := tree.Items[1].Children
	if len(kids) != 2 || kids[0].ID != sb.x.ID || kids[1].ID != sb.y.ID {
		t.Errorf("children = %v, want [%s %s]", documentIDs(kids), sb.x.ID, sb.y.ID)
	}
}
