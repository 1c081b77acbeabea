package handlers

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// NewStatusResource builds the service status reference list. A status
// referenced by any job card, live or trashed, cannot be deleted, trashed
// or purged: the guard covers both transitions.
func NewStatusResource(db *gorm.DB) *Resource[models.ServiceStatus] {
	life := NewLifecycle[models.ServiceStatus](db, "service status").
		WithInUseGuard(statusInUse, true)
	return NewResource(life, "status", 10, []string{"name"}).
		WithBeforeSave(func(r *http.Request, s *models.ServiceStatus, isCreate bool) error {
			if s.Name == "" {
				return models.NewValidationError("name", "required")
			}
			return nil
		})
}

func statusInUse(db *gorm.DB, id string) (string, error) {
	var count int64
	if err := db.Unscoped().Model(&models.JobCard{}).
		Where("service_status_id = ?", id).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return fmt.Sprintf("%d job cards use it", count), nil
	}
	return "", nil
}
