package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// NewCallLogResource builds the phone-desk log. Each entry ties a contact
// to the staff member who handled the call; follow-up notes hang off it as
// a thread.
func NewCallLogResource(db *gorm.DB) *Resource[models.CallLog] {
	life := NewLifecycle[models.CallLog](db, "call log")
	return NewResource(life, "calllog", 25, []string{"subject"}).
		WithPreloads(
			[]string{"Contact", "HandledBy"},
			[]string{"Contact", "HandledBy"},
		).
		WithBeforeSave(func(r *http.Request, cl *models.CallLog, isCreate bool) error {
			return validateCallLog(db, r, cl, isCreate)
		})
}

func validateCallLog(db *gorm.DB, r *http.Request, cl *models.CallLog, isCreate bool) error {
	if cl.Subject == "" {
		return models.NewValidationError("subject", "required")
	}
	if cl.ContactID == uuid.Nil {
		return models.NewValidationError("contact_id", "required")
	}
	var count int64
	if err := db.Model(&models.Contact{}).Where("id = ?", cl.ContactID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewValidationError("contact_id", "unknown contact")
	}
	if isCreate {
		if cl.HandledByID == uuid.Nil {
			cl.HandledByID = actorID(r)
		}
		if cl.CallTime.Time().IsZero() {
			cl.CallTime = models.JSONTime(time.Now())
		}
	}
	return nil
}
