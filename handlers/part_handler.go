package handlers

import (
	"net/http"

	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// NewPartResource builds the spare-parts catalog surface.
func NewPartResource(db *gorm.DB) *Resource[models.ServicePart] {
	life := NewLifecycle[models.ServicePart](db, "service part")
	return NewResource(life, "part", 10,
		[]string{"name", "part_code", "barcode", "brand"}).
		WithBeforeSave(func(r *http.Request, p *models.ServicePart, isCreate bool) error {
			if p.Name == "" {
				return models.NewValidationError("name", "required")
			}
			if p.PartCode == "" {
				return models.NewValidationError("part_code", "required")
			}
			if p.Price < 0 {
				return models.NewValidationError("price", "must not be negative")
			}
			if p.Stock < 0 {
				return models.NewValidationError("stock", "must not be negative")
			}
			return nil
		})
}
