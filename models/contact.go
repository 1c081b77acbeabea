package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactType categorizes a contact ("Individual", "Business", ...).
type ContactType struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ct *ContactType) BeforeCreate(tx *gorm.DB) (err error) {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	return
}

// Contact is the customer or organization that owns devices sent in for
// service. Mobile is the unique business key; email is unique only when
// present (nullable column, nulls never collide).
type Contact struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Mobile        string         `gorm:"size:15;uniqueIndex;not null" json:"mobile"`
	Email         *string        `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Phone         string         `gorm:"size:15" json:"phone,omitempty"`
	Company       string         `gorm:"size:100" json:"company,omitempty"`
	ContactTypeID *uuid.UUID     `gorm:"type:uuid" json:"contact_type_id,omitempty"`
	ContactType   *ContactType   `gorm:"foreignKey:ContactTypeID" json:"contact_type,omitempty"`
	HasWebAccess  bool           `gorm:"default:false" json:"has_web_access"`
	Active        bool           `gorm:"default:true" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
