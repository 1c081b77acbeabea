package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// JobCardHandler serves the repair-work surface. Creation runs through the
// workflow service (job number issue + inward flag flip happen in one
// transaction); listing, updates and the lifecycle reuse the shared
// resource machinery.
type JobCardHandler struct {
	*Resource[models.JobCard]
	workflow *WorkflowService
}

func NewJobCardHandler(db *gorm.DB) *JobCardHandler {
	life := NewLifecycle[models.JobCard](db, "job card").
		WithInUseGuard(jobCardInUse, false)
	res := NewResource(life, "jobcard", 25,
		[]string{"job_no", "diagnosis", "final_status"}).
		WithPreloads(
			[]string{"ServiceInward", "ServiceStatus", "Contact"},
			[]string{"ServiceInward", "ServiceStatus", "Contact"},
		).
		WithBeforeSave(func(r *http.Request, card *models.JobCard, isCreate bool) error {
			return guardJobCardUpdate(db, card)
		})
	return &JobCardHandler{Resource: res, workflow: NewWorkflowService(db)}
}

// Create opens a job card against an inward. The request never chooses the
// job number; it is issued from the card's own sequence id.
func (h *JobCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateJobCardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	card, err := h.workflow.CreateJobCard(in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "job card created",
		"data":    card,
	})
}

// guardJobCardUpdate pins the fields the update surface must not touch.
// The job number, the inward link, the contact snapshot and the delivery
// stamp are all owned by the workflow, not the edit form.
func guardJobCardUpdate(db *gorm.DB, card *models.JobCard) error {
	var stored models.JobCard
	if err := db.Select("job_no", "service_inward_id", "contact_id", "delivered_at", "received_at").
		First(&stored, "id = ?", card.ID).Error; err != nil {
		return err
	}
	card.JobNo = stored.JobNo
	card.ServiceInwardID = stored.ServiceInwardID
	card.ContactID = stored.ContactID
	card.DeliveredAt = stored.DeliveredAt
	card.ReceivedAt = stored.ReceivedAt

	var count int64
	if err := db.Model(&models.ServiceStatus{}).
		Where("id = ?", card.ServiceStatusID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewValidationError("service_status_id", "unknown service status")
	}
	return nil
}

// jobCardInUse blocks a purge while any disposition row, live or trashed,
// still hangs off the card.
func jobCardInUse(db *gorm.DB, id string) (string, error) {
	checks := []struct {
		model interface{}
		label string
	}{
		{&models.JobAssignment{}, "assignments"},
		{&models.OutServiceCenter{}, "out-service records"},
		{&models.ReadyForDelivery{}, "delivery records"},
	}
	for _, c := range checks {
		var count int64
		if err := db.Unscoped().Model(c.model).
			Where("job_card_id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count > 0 {
			return fmt.Sprintf("%d %s reference it", count, c.label), nil
		}
	}
	return "", nil
}
