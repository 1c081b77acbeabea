package handlers

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// NewContactResource builds the customer directory surface. Contacts can
// always be trashed, but purging one is refused while inwards or call logs
// still point at it.
func NewContactResource(db *gorm.DB) *Resource[models.Contact] {
	life := NewLifecycle[models.Contact](db, "contact").
		WithInUseGuard(contactInUse, false)
	return NewResource(life, "contact", 10,
		[]string{"name", "mobile", "email", "company"}).
		WithPreloads([]string{"ContactType"}, []string{"ContactType"}).
		WithBeforeSave(func(r *http.Request, c *models.Contact, isCreate bool) error {
			return validateContact(db, c)
		})
}

func validateContact(db *gorm.DB, c *models.Contact) error {
	if c.Name == "" {
		return models.NewValidationError("name", "required")
	}
	if c.Mobile == "" {
		return models.NewValidationError("mobile", "required")
	}
	if c.ContactTypeID != nil {
		var count int64
		if err := db.Model(&models.ContactType{}).
			Where("id = ?", c.ContactTypeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.NewValidationError("contact_type_id", "unknown contact type")
		}
	}
	return nil
}

func contactInUse(db *gorm.DB, id string) (string, error) {
	var inwards int64
	if err := db.Unscoped().Model(&models.ServiceInward{}).
		Where("contact_id = ?", id).Count(&inwards).Error; err != nil {
		return "", err
	}
	if inwards > 0 {
		return fmt.Sprintf("%d service inwards reference it", inwards), nil
	}
	var calls int64
	if err := db.Unscoped().Model(&models.CallLog{}).
		Where("contact_id = ?", id).Count(&calls).Error; err != nil {
		return "", err
	}
	if calls > 0 {
		return fmt.Sprintf("%d call logs reference it", calls), nil
	}
	return "", nil
}

// NewContactTypeResource builds the reference list behind the contact
// form's type picker. A type in use by any contact cannot be deleted at all.
func NewContactTypeResource(db *gorm.DB) *Resource[models.ContactType] {
	life := NewLifecycle[models.ContactType](db, "contact type").
		WithInUseGuard(contactTypeInUse, true)
	return NewResource(life, "contact_type", 10, []string{"name"}).
		WithBeforeSave(func(r *http.Request, ct *models.ContactType, isCreate bool) error {
			if ct.Name == "" {
				return models.NewValidationError("name", "required")
			}
			return nil
		})
}

func contactTypeInUse(db *gorm.DB, id string) (string, error) {
	var count int64
	if err := db.Unscoped().Model(&models.Contact{}).
		Where("contact_type_id = ?", id).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return fmt.Sprintf("%d contacts use it", count), nil
	}
	return "", nil
}
