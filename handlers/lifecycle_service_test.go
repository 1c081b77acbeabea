package handlers

import (
	"errors"
	"testing"

	"p9e.in/servicedesk/models"
)

func TestLifecycleTrashAndRestoreKeepsFields(t *testing.T) {
	contact := testContact(t)
	contact.Company = "Initech"
	if err := testDB.Save(contact).Error; err != nil {
		t.Fatalf("save: %v", err)
	}

	life := NewLifecycle[models.Contact](testDB, "contact")
	id := contact.ID.String()

	if err := life.Trash(id); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if _, err := life.Get(id); !isNotFound(err) {
		t.Fatalf("trashed contact still visible, err=%v", err)
	}

	if err := life.Restore(id); err != nil {
		t.Fatalf("restore: %v", err)
	}
	restored, err := life.Get(id)
	if err != nil {
		t.Fatalf("get after restore: %v", err)
	}
	if restored.Company != "Initech" || restored.Mobile != contact.Mobile {
		t.Errorf("restore changed fields: got %+v", restored)
	}
}

func TestLifecycleTrashTwiceIsNoop(t *testing.T) {
	contact := testContact(t)
	life := NewLifecycle[models.Contact](testDB, "contact")
	id := contact.ID.String()

	if err := life.Trash(id); err != nil {
		t.Fatalf("first trash: %v", err)
	}
	if err := life.Trash(id); err != nil {
		t.Fatalf("second trash should be a no-op success, got %v", err)
	}
}

func TestLifecycleTrashUnknownIDIsNotFound(t *testing.T) {
	life := NewLifecycle[models.Contact](testDB, "contact")
	err := life.Trash("3f2f7f1e-0000-0000-0000-000000000000")
	if !isNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestLifecycleForceDeleteIsTerminal(t *testing.T) {
	contact := testContact(t)
	life := NewLifecycle[models.Contact](testDB, "contact")
	id := contact.ID.String()

	// Purge requires the record to be in the trash first.
	if err := life.ForceDelete(id); !isNotFound(err) {
		t.Fatalf("purge of an active record should be NotFound, got %v", err)
	}

	if err := life.Trash(id); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if err := life.ForceDelete(id); err != nil {
		t.Fatalf("force delete: %v", err)
	}
	if err := life.Restore(id); !isNotFound(err) {
		t.Fatalf("restore after purge should be NotFound, got %v", err)
	}
}

func TestLifecycleGuardRefusesDeleteWhileReferenced(t *testing.T) {
	card := testJobCard(t)

	life := NewLifecycle[models.ServiceStatus](testDB, "service status").
		WithInUseGuard(statusInUse, true)

	var conflict *models.ConflictError
	err := life.Trash(card.ServiceStatusID.String())
	if !errors.As(err, &conflict) {
		t.Fatalf("want ConflictError for referenced status, got %v", err)
	}
	err = life.ForceDelete(card.ServiceStatusID.String())
	if !errors.As(err, &conflict) {
		t.Fatalf("want ConflictError on purge of referenced status, got %v", err)
	}
}

func TestLifecycleListSeparatesTrash(t *testing.T) {
	active := testContact(t)
	trashed := testContact(t)

	life := NewLifecycle[models.Contact](testDB, "contact")
	if err := life.Trash(trashed.ID.String()); err != nil {
		t.Fatalf("trash: %v", err)
	}

	params := models.ListParams{Page: 1, PageSize: 200}
	rows, _, err := life.List(params, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if containsContact(rows, trashed.ID.String()) {
		t.Error("trashed contact leaked into the active listing")
	}
	if !containsContact(rows, active.ID.String()) {
		t.Error("active contact missing from listing")
	}

	trashRows, _, err := life.ListTrash(params, nil)
	if err != nil {
		t.Fatalf("list trash: %v", err)
	}
	if !containsContact(trashRows, trashed.ID.String()) {
		t.Error("trashed contact missing from trash listing")
	}
	if containsContact(trashRows, active.ID.String()) {
		t.Error("active contact leaked into the trash listing")
	}
}

func TestLifecycleSearchFiltersCaseInsensitive(t *testing.T) {
	contact := testContact(t)
	contact.Company = "ZephyrTronics"
	if err := testDB.Save(contact).Error; err != nil {
		t.Fatalf("save: %v", err)
	}

	life := NewLifecycle[models.Contact](testDB, "contact")
	params := models.ListParams{Page: 1, PageSize: 200, Search: "zephyrtr"}
	rows, total, err := life.List(params, []string{"name", "mobile", "company"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total == 0 || !containsContact(rows, contact.ID.String()) {
		t.Errorf("search missed the contact, total=%d", total)
	}
}

func isNotFound(err error) bool {
	var nf *models.NotFoundError
	return errors.As(err, &nf)
}

func containsContact(rows []models.Contact, id string) bool {
	for _, c := range rows {
		if c.ID.String() == id {
			return true
		}
	}
	return false
}
