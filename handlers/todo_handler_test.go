package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"p9e.in/servicedesk/models"
)

func TestTodoListPaginatesPerOwner(t *testing.T) {
	owner := testUser(t)
	other := testUser(t)
	svc := NewTodoService(testDB)
	for _, title := range []string{"one", "two", "three"} {
		if _, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: title}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if _, err := svc.InsertAtTop(other.ID, InsertAtTopInput{Title: "not yours"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	h := NewTodoHandler(testDB)
	rec := serveAuthed(t, owner, h.List, http.MethodGet, "/todos?page=1&page_size=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp listPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || resp.Page != 1 || resp.PageSize != 10 {
		t.Errorf("pagination echo: total=%d page=%d page_size=%d", resp.Total, resp.Page, resp.PageSize)
	}
	var todos []models.Todo
	if err := json.Unmarshal(resp.Data, &todos); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("want 3 rows, got %d", len(todos))
	}
	for i, todo := range todos {
		if todo.OwnerID != owner.ID {
			t.Errorf("foreign todo leaked: %+v", todo)
		}
		if todo.Position != i {
			t.Errorf("not in position order at %d: %+v", i, todo)
		}
	}

	// A later page answers empty but keeps the same total.
	rec = serveAuthed(t, owner, h.List, http.MethodGet, "/todos?page=2&page_size=10", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("page 2 total: got %d want 3", resp.Total)
	}
	todos = nil
	if err := json.Unmarshal(resp.Data, &todos); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("page 2 rows: got %d want 0", len(todos))
	}
}

func TestTodoTrashListingPaginates(t *testing.T) {
	owner := testUser(t)
	svc := NewTodoService(testDB)
	todo, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: "old task"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := NewLifecycle[models.Todo](testDB, "todo").Trash(todo.ID.String()); err != nil {
		t.Fatalf("trash: %v", err)
	}

	h := NewTodoHandler(testDB)
	rec := serveAuthed(t, owner, h.ListTrash, http.MethodGet, "/todos/trash", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp listPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Page != 1 || resp.PageSize != 25 {
		t.Errorf("pagination echo: total=%d page=%d page_size=%d", resp.Total, resp.Page, resp.PageSize)
	}
	for _, key := range []string{"create", "delete"} {
		if _, ok := resp.Can[key]; !ok {
			t.Errorf("capability map missing %q", key)
		}
	}
}
