package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// NewInwardResource builds the front-desk intake surface. The receiving
// user is stamped from the token, job_created stays server-owned, and a
// purge is refused while job cards still reference the inward.
func NewInwardResource(db *gorm.DB) *Resource[models.ServiceInward] {
	life := NewLifecycle[models.ServiceInward](db, "service inward").
		WithInUseGuard(inwardInUse, false)
	return NewResource(life, "inward", 25,
		[]string{"rma", "brand", "model", "serial_no"}).
		WithPreloads(
			[]string{"Contact", "ReceivedBy"},
			[]string{"Contact", "ReceivedBy"},
		).
		WithBeforeSave(func(r *http.Request, in *models.ServiceInward, isCreate bool) error {
			return validateInward(db, r, in, isCreate)
		})
}

func validateInward(db *gorm.DB, r *http.Request, in *models.ServiceInward, isCreate bool) error {
	if in.RMA == "" {
		return models.NewValidationError("rma", "required")
	}
	if !in.MaterialType.Valid() {
		return models.NewValidationError("material_type", fmt.Sprintf("unknown material type %q", in.MaterialType))
	}
	if in.ContactID == uuid.Nil {
		return models.NewValidationError("contact_id", "required")
	}
	var count int64
	if err := db.Model(&models.Contact{}).Where("id = ?", in.ContactID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewValidationError("contact_id", "unknown contact")
	}

	if isCreate {
		in.JobCreated = false
		if in.ReceivedByID == uuid.Nil {
			in.ReceivedByID = actorID(r)
		}
		if in.ReceivedDate.Time().IsZero() {
			in.ReceivedDate = models.JSONTime(time.Now())
		}
		return nil
	}

	// job_created is owned by the job card workflow; an update payload
	// cannot flip it in either direction.
	var stored models.ServiceInward
	if err := db.Select("job_created").First(&stored, "id = ?", in.ID).Error; err != nil {
		return err
	}
	in.JobCreated = stored.JobCreated
	return nil
}

func inwardInUse(db *gorm.DB, id string) (string, error) {
	var count int64
	if err := db.Unscoped().Model(&models.JobCard{}).
		Where("service_inward_id = ?", id).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return fmt.Sprintf("%d job cards reference it", count), nil
	}
	return "", nil
}
