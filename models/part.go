package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServicePart is a spare part entry. Stock and price are informational
// only; nothing in the workflow deducts stock.
type ServicePart struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	PartCode    string         `gorm:"size:50;uniqueIndex;not null" json:"part_code"`
	Barcode     *string        `gorm:"size:50;uniqueIndex" json:"barcode,omitempty"`
	Brand       string         `gorm:"size:50" json:"brand,omitempty"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *ServicePart) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
