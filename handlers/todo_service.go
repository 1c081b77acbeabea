package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// TodoService keeps each owner's list densely positioned: positions are
// zero-based, unique per active list, and gapless after every operation.
type TodoService struct {
	db *gorm.DB
}

func NewTodoService(db *gorm.DB) *TodoService {
	return &TodoService{db: db}
}

// InsertAtTopInput carries a new todo's fields.
type InsertAtTopInput struct {
	Title      string                `json:"title"`
	AssigneeID *uuid.UUID            `json:"assignee_id"`
	Visibility models.TodoVisibility `json:"visibility"`
	Priority   models.TodoPriority   `json:"priority"`
	DueDate    *time.Time            `json:"due_date"`
}

// InsertAtTop shifts every existing todo down one slot and inserts the new
// one at position 0. The O(n) shift is fine at personal-list scale.
func (s *TodoService) InsertAtTop(ownerID uuid.UUID, in InsertAtTopInput) (*models.Todo, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("title", "required")
	}
	if in.Visibility == "" {
		in.Visibility = models.TodoVisibilityPersonal
	}
	if !in.Visibility.Valid() {
		return nil, models.NewValidationError("visibility", fmt.Sprintf("unknown visibility %q", in.Visibility))
	}
	if in.Priority == "" {
		in.Priority = models.TodoPriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, models.NewValidationError("priority", fmt.Sprintf("unknown priority %q", in.Priority))
	}

	todo := &models.Todo{
		Title:      in.Title,
		OwnerID:    ownerID,
		AssigneeID: in.AssigneeID,
		Visibility: in.Visibility,
		Priority:   in.Priority,
		DueDate:    in.DueDate,
		Position:   0,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Todo{}).
			Where("owner_id = ?", ownerID).
			UpdateColumn("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}
		return tx.Create(todo).Error
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// Reorder sets position = index for the given id sequence. The set must
// exactly cover the owner's active todos: partial lists are rejected so
// positions can never go duplicate or gappy.
func (s *TodoService) Reorder(ownerID uuid.UUID, orderedIDs []uuid.UUID) error {
	var existing []models.Todo
	if err := s.db.Select("id").Where("owner_id = ?", ownerID).Find(&existing).Error; err != nil {
		return err
	}

	if len(orderedIDs) != len(existing) {
		return models.NewValidationError("ids",
			fmt.Sprintf("expected %d ids, got %d", len(existing), len(orderedIDs)))
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] {
			return models.NewValidationError("ids", fmt.Sprintf("unknown todo %s", id))
		}
		if seen[id] {
			return models.NewValidationError("ids", fmt.Sprintf("duplicate todo %s", id))
		}
		seen[id] = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range orderedIDs {
			if err := tx.Model(&models.Todo{}).
				Where("id = ? AND owner_id = ?", id, ownerID).
				UpdateColumn("position", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Reordered %d todos for %s", len(orderedIDs), ownerID)
	return nil
}

// Compact resequences an owner's active todos after a trash or restore so
// the dense-position invariant survives lifecycle churn.
func (s *TodoService) Compact(ownerID uuid.UUID) error {
	var todos []models.Todo
	if err := s.db.Select("id").
		Where("owner_id = ?", ownerID).
		Order("position ASC, created_at ASC").
		Find(&todos).Error; err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, t := range todos {
			if err := tx.Model(&models.Todo{}).
				Where("id = ?", t.ID).
				UpdateColumn("position", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns an owner's active todos in position order.
func (s *TodoService) List(ownerID uuid.UUID) ([]models.Todo, error) {
	var todos []models.Todo
	err := s.db.
		Where("owner_id = ?", ownerID).
		Preload("Assignee").
		Order("position ASC").
		Find(&todos).Error
	return todos, err
}
