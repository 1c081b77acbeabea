package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Todo is a position-ordered task list entry. Position is a dense,
// zero-based ordering key per owner: no gaps survive any reorder.
type Todo struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string         `gorm:"size:255;not null" json:"title"`
	OwnerID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner      *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	AssigneeID *uuid.UUID     `gorm:"type:uuid" json:"assignee_id,omitempty"`
	Assignee   *User          `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Visibility TodoVisibility `gorm:"size:10;not null;default:personal" json:"visibility"`
	Priority   TodoPriority   `gorm:"size:10;not null;default:medium" json:"priority"`
	DueDate    *time.Time     `json:"due_date,omitempty"`
	Completed  bool           `gorm:"default:false" json:"completed"`
	Position   int            `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Todo) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
