package handlers

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// noteRecord is what the thread manager needs from either note family.
// models.NoteBody provides all of it; InwardNote and CallLogNote differ
// only in table and owner entity.
type noteRecord interface {
	NoteID() uuid.UUID
	Owner() uuid.UUID
	Author() uuid.UUID
	Parent() *uuid.UUID
	SetBody(text string)
	SetOwner(id uuid.UUID)
	SetAuthor(id uuid.UUID)
	MarkReply(parent uuid.UUID)
}

// NoteService is the threading manager shared by inward notes and call log
// notes: root notes with direct replies, depth capped at two levels.
type NoteService[T any, PT interface {
	noteRecord
	*T
}] struct {
	db     *gorm.DB
	entity string
}

func NewNoteService[T any, PT interface {
	noteRecord
	*T
}](db *gorm.DB, entity string) *NoteService[T, PT] {
	return &NoteService[T, PT]{db: db, entity: entity}
}

// ListRoots returns the owner's root notes oldest first, each with its
// direct replies attached in creation order. Replies whose root was
// trashed are not listed here by construction; the owner screens never
// render them until the root is restored.
func (s *NoteService[T, PT]) ListRoots(ownerID uuid.UUID) ([]T, error) {
	var roots []T
	err := s.db.
		Where("owner_id = ? AND parent_id IS NULL", ownerID).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Preload("User").
		Order("created_at ASC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// AddNote appends a root note, or a direct reply when parentID is given.
// The parent must live under the same owner and must itself be a root:
// replying to a reply is rejected rather than silently flattening the
// thread.
func (s *NoteService[T, PT]) AddNote(ownerID, authorID uuid.UUID, text string, parentID *uuid.UUID) (*T, error) {
	if text == "" {
		return nil, models.NewValidationError("note", "required")
	}

	var row T
	note := PT(&row)
	note.SetOwner(ownerID)
	note.SetAuthor(authorID)
	note.SetBody(text)

	if parentID != nil {
		var parentRow T
		err := s.db.First(&parentRow, "id = ?", *parentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: s.entity, ID: parentID.String()}
		}
		if err != nil {
			return nil, err
		}
		parent := PT(&parentRow)
		if parent.Owner() != ownerID {
			return nil, models.NewValidationError("parent_id", "parent note belongs to a different record")
		}
		if parent.Parent() != nil {
			return nil, models.NewValidationError("parent_id", "cannot reply to a reply")
		}
		note.MarkReply(parent.NoteID())
	}

	if err := s.db.Create(note).Error; err != nil {
		return nil, err
	}
	log.Printf("✅ Added %s %s (reply=%v)", s.entity, note.NoteID(), note.Parent() != nil)
	return &row, nil
}

// EditNote rewrites the text. Only the author or a caller the handler has
// vetted as a moderator may edit; parent and is_reply never change.
func (s *NoteService[T, PT]) EditNote(id string, actorID uuid.UUID, canModerate bool, text string) (*T, error) {
	if text == "" {
		return nil, models.NewValidationError("note", "required")
	}

	var row T
	err := s.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Entity: s.entity, ID: id}
	}
	if err != nil {
		return nil, err
	}

	note := PT(&row)
	if note.Author() != actorID && !canModerate {
		return nil, &models.ForbiddenError{Action: "edit someone else's note"}
	}

	if err := s.db.Model(note).Update("note", text).Error; err != nil {
		return nil, err
	}
	note.SetBody(text)
	return &row, nil
}

// DeleteNote soft-deletes one note. Replies are not cascaded: trashing a
// root merely hides the whole thread from ListRoots until it is restored.
func (s *NoteService[T, PT]) DeleteNote(id string) error {
	res := s.db.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: s.entity, ID: id}
	}
	return nil
}
