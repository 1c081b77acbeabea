package handlers

import (
	"testing"

	"github.com/google/uuid"
	"p9e.in/servicedesk/models"
)

func TestInsertAtTopShiftsPositions(t *testing.T) {
	owner := testUser(t)
	svc := NewTodoService(testDB)

	first, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: "order spares"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: "call customer"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	todos, err := svc.List(owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("want 2 todos, got %d", len(todos))
	}
	if todos[0].ID != second.ID || todos[0].Position != 0 {
		t.Errorf("newest not at top: %+v", todos[0])
	}
	if todos[1].ID != first.ID || todos[1].Position != 1 {
		t.Errorf("older not shifted down: %+v", todos[1])
	}
}

func TestInsertAtTopDefaults(t *testing.T) {
	owner := testUser(t)
	svc := NewTodoService(testDB)

	todo, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: "bench cleanup"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if todo.Visibility != models.TodoVisibilityPersonal {
		t.Errorf("default visibility: got %s", todo.Visibility)
	}
	if todo.Priority != models.TodoPriorityMedium {
		t.Errorf("default priority: got %s", todo.Priority)
	}

	if _, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{}); !isValidation(err) {
		t.Fatalf("missing title: want ValidationError, got %v", err)
	}
	if _, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: "x", Priority: "urgent"}); !isValidation(err) {
		t.Fatalf("bad priority: want ValidationError, got %v", err)
	}
}

func TestReorderAssignsDensePositions(t *testing.T) {
	owner := testUser(t)
	svc := NewTodoService(testDB)

	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c"} {
		todo, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: title})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, todo.ID)
	}

	// Current top-to-bottom order is c, b, a; flip it.
	if err := svc.Reorder(owner.ID, []uuid.UUID{ids[0], ids[1], ids[2]}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	todos, err := svc.List(owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, todo := range todos {
		if todo.Position != i {
			t.Errorf("position %d not dense: %+v", i, todo)
		}
		if todo.ID != ids[i] {
			t.Errorf("order wrong at %d: got %s want %s", i, todo.ID, ids[i])
		}
	}
}

func TestReorderRejectsPartialOrForeignSets(t *testing.T) {
	owner := testUser(t)
	other := testUser(t)
	svc := NewTodoService(testDB)

	mine, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: "mine"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	mine2, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: "mine too"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	theirs, err := svc.InsertAtTop(other.ID, InsertAtTopInput{Title: "theirs"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := svc.Reorder(owner.ID, []uuid.UUID{mine.ID}); !isValidation(err) {
		t.Fatalf("partial set: want ValidationError, got %v", err)
	}
	if err := svc.Reorder(owner.ID, []uuid.UUID{mine.ID, theirs.ID}); !isValidation(err) {
		t.Fatalf("foreign id: want ValidationError, got %v", err)
	}
	if err := svc.Reorder(owner.ID, []uuid.UUID{mine.ID, mine.ID}); !isValidation(err) {
		t.Fatalf("duplicate id: want ValidationError, got %v", err)
	}
	if err := svc.Reorder(owner.ID, []uuid.UUID{mine2.ID, mine.ID}); err != nil {
		t.Fatalf("exact set rejected: %v", err)
	}
}

func TestCompactClosesGapAfterTrash(t *testing.T) {
	owner := testUser(t)
	svc := NewTodoService(testDB)
	life := NewLifecycle[models.Todo](testDB, "todo")

	var ids []uuid.UUID
	for _, title := range []string{"one", "two", "three"} {
		todo, err := svc.InsertAtTop(owner.ID, InsertAtTopInput{Title: title})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, todo.ID)
	}

	// Trash the middle one (position 1) and resequence.
	if err := life.Trash(ids[1].String()); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if err := svc.Compact(owner.ID); err != nil {
		t.Fatalf("compact: %v", err)
	}

	todos, err := svc.List(owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("want 2 active todos, got %d", len(todos))
	}
	for i, todo := range todos {
		if todo.Position != i {
			t.Errorf("gap left at %d: %+v", i, todo)
		}
	}
}
