package handlers

import (
	"errors"
	"testing"
	"time"

	"p9e.in/servicedesk/models"
)

func inwardNoteService() *NoteService[models.InwardNote, *models.InwardNote] {
	return NewNoteService[models.InwardNote](testDB, "inward note")
}

func TestNoteThreading(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	inward := testInward(t, contact, user)
	svc := inwardNoteService()

	root, err := svc.AddNote(inward.ID, user.ID, "device has prior repair marks", nil)
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if root.IsReply || root.ParentID != nil {
		t.Error("root note marked as reply")
	}

	reply, err := svc.AddNote(inward.ID, user.ID, "confirmed with customer", &root.ID)
	if err != nil {
		t.Fatalf("add reply: %v", err)
	}
	if !reply.IsReply || reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Errorf("reply not linked to root: %+v", reply)
	}

	roots, err := svc.ListRoots(inward.ID)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("want 1 root, got %d", len(roots))
	}
	if len(roots[0].Replies) != 1 || roots[0].Replies[0].ID != reply.ID {
		t.Errorf("reply not attached under root: %+v", roots[0].Replies)
	}
}

func TestReplyToReplyRejected(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	inward := testInward(t, contact, user)
	svc := inwardNoteService()

	root, err := svc.AddNote(inward.ID, user.ID, "root", nil)
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	reply, err := svc.AddNote(inward.ID, user.ID, "reply", &root.ID)
	if err != nil {
		t.Fatalf("add reply: %v", err)
	}

	if _, err := svc.AddNote(inward.ID, user.ID, "nested", &reply.ID); !isValidation(err) {
		t.Fatalf("want ValidationError for reply-to-reply, got %v", err)
	}
}

func TestNoteParentMustShareOwner(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	inwardA := testInward(t, contact, user)
	inwardB := testInward(t, contact, user)
	svc := inwardNoteService()

	root, err := svc.AddNote(inwardA.ID, user.ID, "on A", nil)
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := svc.AddNote(inwardB.ID, user.ID, "cross-thread", &root.ID); !isValidation(err) {
		t.Fatalf("want ValidationError for cross-owner parent, got %v", err)
	}
}

func TestNoteEditAuthorization(t *testing.T) {
	author := testUser(t)
	other := testUser(t)
	contact := testContact(t)
	inward := testInward(t, contact, author)
	svc := inwardNoteService()

	note, err := svc.AddNote(inward.ID, author.ID, "original", nil)
	if err != nil {
		t.Fatalf("add note: %v", err)
	}

	var forbidden *models.ForbiddenError
	if _, err := svc.EditNote(note.ID.String(), other.ID, false, "hijacked"); !errors.As(err, &forbidden) {
		t.Fatalf("non-author edit: want ForbiddenError, got %v", err)
	}

	edited, err := svc.EditNote(note.ID.String(), other.ID, true, "moderated")
	if err != nil {
		t.Fatalf("moderator edit: %v", err)
	}
	if edited.Body != "moderated" {
		t.Errorf("body not updated: %q", edited.Body)
	}

	if _, err := svc.EditNote(note.ID.String(), author.ID, false, "author edit"); err != nil {
		t.Fatalf("author edit: %v", err)
	}
}

func TestDeleteRootHidesThread(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	inward := testInward(t, contact, user)
	svc := inwardNoteService()

	root, err := svc.AddNote(inward.ID, user.ID, "root", nil)
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := svc.AddNote(inward.ID, user.ID, "reply", &root.ID); err != nil {
		t.Fatalf("add reply: %v", err)
	}

	if err := svc.DeleteNote(root.ID.String()); err != nil {
		t.Fatalf("delete root: %v", err)
	}

	roots, err := svc.ListRoots(inward.ID)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("trashed root still listed: %d roots", len(roots))
	}

	// The reply row is untouched; it comes back when the root is restored.
	var replies int64
	if err := testDB.Model(&models.InwardNote{}).
		Where("parent_id = ?", root.ID).Count(&replies).Error; err != nil {
		t.Fatalf("count replies: %v", err)
	}
	if replies != 1 {
		t.Errorf("reply was cascaded, want 1 got %d", replies)
	}
}

func TestCallLogNotesIndependentOfInwardNotes(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	callLog := &models.CallLog{
		ContactID:   contact.ID,
		Subject:     "warranty question",
		CallTime:    models.JSONTime(time.Now()),
		HandledByID: user.ID,
	}
	if err := testDB.Create(callLog).Error; err != nil {
		t.Fatalf("create call log: %v", err)
	}

	svc := NewNoteService[models.CallLogNote](testDB, "call log note")
	if _, err := svc.AddNote(callLog.ID, user.ID, "customer will call back", nil); err != nil {
		t.Fatalf("add call log note: %v", err)
	}

	roots, err := svc.ListRoots(callLog.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roots) != 1 {
		t.Errorf("want 1 call log note, got %d", len(roots))
	}

	inwardRoots, err := inwardNoteService().ListRoots(callLog.ID)
	if err != nil {
		t.Fatalf("cross list: %v", err)
	}
	if len(inwardRoots) != 0 {
		t.Errorf("call log notes leaked into the inward note table")
	}
}
