package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteBody is the shape shared by both note families (inward notes and call
// log notes). A note is either a root (ParentID nil) or a direct reply to a
// root; IsReply is derived from ParentID at creation and never changes.
// Thread depth is capped at two levels: replies never have replies.
type NoteBody struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"owner_id"`
	Body      string         `gorm:"column:note;type:text;not null" json:"note"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	IsReply   bool           `gorm:"default:false" json:"is_reply"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Accessors used by the generic notes thread service.

func (n *NoteBody) NoteID() uuid.UUID    { return n.ID }
func (n *NoteBody) Owner() uuid.UUID     { return n.OwnerID }
func (n *NoteBody) Author() uuid.UUID    { return n.UserID }
func (n *NoteBody) Parent() *uuid.UUID   { return n.ParentID }
func (n *NoteBody) SetBody(text string)  { n.Body = text }
func (n *NoteBody) SetOwner(id uuid.UUID) { n.OwnerID = id }
func (n *NoteBody) SetAuthor(id uuid.UUID) { n.UserID = id }

// MarkReply turns the note into a direct reply of the given root.
func (n *NoteBody) MarkReply(parent uuid.UUID) {
	p := parent
	n.ParentID = &p
	n.IsReply = true
}

func (n *NoteBody) ensureID() {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
}

// InwardNote attaches to a ServiceInward.
type InwardNote struct {
	NoteBody
	Replies []InwardNote `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

func (n *InwardNote) BeforeCreate(tx *gorm.DB) (err error) {
	n.ensureID()
	return
}

func (InwardNote) TableName() string {
	return "inward_notes"
}

// CallLogNote attaches to a CallLog.
type CallLogNote struct {
	NoteBody
	Replies []CallLogNote `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

func (n *CallLogNote) BeforeCreate(tx *gorm.DB) (err error) {
	n.ensureID()
	return
}

func (CallLogNote) TableName() string {
	return "call_log_notes"
}

// CallLog records a phone conversation with a contact; staff hang threaded
// notes off it the same way they do for inwards.
type CallLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"contact_id"`
	Contact     *Contact       `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Subject     string         `gorm:"size:255;not null" json:"subject"`
	CallTime    JSONTime       `gorm:"not null" json:"call_time"`
	HandledByID uuid.UUID      `gorm:"type:uuid;not null" json:"handled_by_id"`
	HandledBy   *User          `gorm:"foreignKey:HandledByID" json:"handled_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *CallLog) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
