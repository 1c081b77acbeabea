package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// Disposition handlers: the three record types that resolve a job card.
// Creation goes through the workflow service; everything else is the
// uniform resource surface.

type AssignmentHandler struct {
	*Resource[models.JobAssignment]
	workflow *WorkflowService
}

func NewAssignmentHandler(db *gorm.DB) *AssignmentHandler {
	life := NewLifecycle[models.JobAssignment](db, "job assignment")
	res := NewResource(life, "assignment", 25,
		[]string{"stage", "report", "remarks"}).
		WithPreloads(
			[]string{"JobCard", "User", "ServiceStatus"},
			[]string{"JobCard", "User", "ServiceStatus"},
		).
		WithBeforeSave(func(r *http.Request, a *models.JobAssignment, isCreate bool) error {
			return guardAssignmentUpdate(db, a)
		})
	return &AssignmentHandler{Resource: res, workflow: NewWorkflowService(db)}
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateAssignmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	assignment, err := h.workflow.CreateAssignment(in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "job assignment created",
		"data":    assignment,
	})
}

func guardAssignmentUpdate(db *gorm.DB, a *models.JobAssignment) error {
	if !a.Stage.Valid() {
		return models.NewValidationError("stage", fmt.Sprintf("unknown stage %q", a.Stage))
	}
	if a.StartedAt != nil && a.CompletedAt != nil && a.CompletedAt.Before(*a.StartedAt) {
		return models.NewValidationError("completed_at", "must not be before started_at")
	}
	if err := statusExists(db, a.ServiceStatusID); err != nil {
		return err
	}
	if err := userExists(db, a.UserID); err != nil {
		return err
	}
	var stored models.JobAssignment
	if err := db.Select("job_card_id", "assigned_at").First(&stored, "id = ?", a.ID).Error; err != nil {
		return err
	}
	a.JobCardID = stored.JobCardID
	a.AssignedAt = stored.AssignedAt
	return nil
}

type OutServiceHandler struct {
	*Resource[models.OutServiceCenter]
	workflow *WorkflowService
}

func NewOutServiceHandler(db *gorm.DB) *OutServiceHandler {
	life := NewLifecycle[models.OutServiceCenter](db, "out service record")
	res := NewResource(life, "outservice", 25,
		[]string{"service_name", "material_name", "notes"}).
		WithPreloads(
			[]string{"JobCard", "ServiceStatus", "User"},
			[]string{"JobCard", "ServiceStatus", "User"},
		).
		WithBeforeSave(func(r *http.Request, o *models.OutServiceCenter, isCreate bool) error {
			return guardOutServiceUpdate(db, o)
		})
	return &OutServiceHandler{Resource: res, workflow: NewWorkflowService(db)}
}

func (h *OutServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateOutServiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	out, err := h.workflow.CreateOutService(in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "out service record created",
		"data":    out,
	})
}

func guardOutServiceUpdate(db *gorm.DB, o *models.OutServiceCenter) error {
	if o.ServiceName == "" {
		return models.NewValidationError("service_name", "required")
	}
	if o.ExpectedBack != nil && !o.ExpectedBack.After(o.SentAt) {
		return models.NewValidationError("expected_back", "must be after sent_at")
	}
	if err := statusExists(db, o.ServiceStatusID); err != nil {
		return err
	}
	if err := userExists(db, o.UserID); err != nil {
		return err
	}
	var stored models.OutServiceCenter
	if err := db.Select("job_card_id").First(&stored, "id = ?", o.ID).Error; err != nil {
		return err
	}
	o.JobCardID = stored.JobCardID
	return nil
}

type DeliveryHandler struct {
	*Resource[models.ReadyForDelivery]
	workflow *WorkflowService
}

func NewDeliveryHandler(db *gorm.DB) *DeliveryHandler {
	life := NewLifecycle[models.ReadyForDelivery](db, "ready for delivery")
	res := NewResource(life, "delivery", 25,
		[]string{"engineer_note", "billing_details"}).
		WithPreloads(
			[]string{"JobCard", "ServiceStatus", "User"},
			[]string{"JobCard", "ServiceStatus", "User"},
		).
		WithBeforeSave(func(r *http.Request, d *models.ReadyForDelivery, isCreate bool) error {
			return guardDeliveryUpdate(db, d)
		})
	return &DeliveryHandler{Resource: res, workflow: NewWorkflowService(db)}
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateDeliveryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	rfd, err := h.workflow.CreateReadyForDelivery(in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "job card staged for delivery",
		"data":    rfd,
	})
}

// Confirm records the physical handover.
func (h *DeliveryHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		DeliveredOTP string `json:"delivered_otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	rfd, err := h.workflow.ConfirmDelivery(id, body.DeliveredOTP, actorID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "delivery confirmed",
		"data":    rfd,
	})
}

// guardDeliveryUpdate keeps the link, the OTP and the confirmation stamps
// out of reach of the edit form.
func guardDeliveryUpdate(db *gorm.DB, d *models.ReadyForDelivery) error {
	if err := statusExists(db, d.ServiceStatusID); err != nil {
		return err
	}
	if err := userExists(db, d.UserID); err != nil {
		return err
	}
	var stored models.ReadyForDelivery
	if err := db.Select("job_card_id", "delivered_otp", "delivered_confirmed_at", "delivered_confirmed_by").
		First(&stored, "id = ?", d.ID).Error; err != nil {
		return err
	}
	d.JobCardID = stored.JobCardID
	d.DeliveredOTP = stored.DeliveredOTP
	d.DeliveredConfirmedAt = stored.DeliveredConfirmedAt
	d.DeliveredConfirmedBy = stored.DeliveredConfirmedBy
	return nil
}
