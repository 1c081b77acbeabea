package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// WorkflowService owns the linked-field rules of the repair chain:
// ServiceInward → JobCard → (JobAssignment | OutServiceCenter) →
// ReadyForDelivery.
type WorkflowService struct {
	db *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db}
}

// CreateJobCardInput carries the caller-supplied job card fields.
type CreateJobCardInput struct {
	ServiceInwardID uuid.UUID `json:"service_inward_id"`
	ServiceStatusID uuid.UUID `json:"service_status_id"`
	Diagnosis       string    `json:"diagnosis"`
	EstimatedCost   float64   `json:"estimated_cost"`
	AdvancePaid     float64   `json:"advance_paid"`
}

// CreateJobCard opens the unit of repair work against an inward:
// the contact is snapshotted from the inward (later contact changes on the
// inward do not follow), the job number is derived from the card's
// sequence-assigned id so numbers stay strictly increasing and are never
// reused even after a purge, and the inward's job_created flag flips to
// true. All writes happen in one transaction so a partial failure cannot
// leave the flag and the card disagreeing.
//
// Nothing ever flips job_created back: trashing or purging the job card
// leaves the flag standing. That asymmetry is inherited behavior, not a bug.
func (s *WorkflowService) CreateJobCard(in CreateJobCardInput) (*models.JobCard, error) {
	var inward models.ServiceInward
	if err := s.db.First(&inward, "id = ?", in.ServiceInwardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "service inward", ID: in.ServiceInwardID.String()}
		}
		return nil, err
	}

	if err := statusExists(s.db, in.ServiceStatusID); err != nil {
		return nil, err
	}

	// One live job card per inward. A trashed card does not block a new
	// one, mirroring the ready-for-delivery rule further down the chain.
	var existing int64
	if err := s.db.Model(&models.JobCard{}).
		Where("service_inward_id = ?", inward.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, models.NewConflictError("inward %s already has a job card", inward.RMA)
	}

	card := &models.JobCard{
		ServiceInwardID: inward.ID,
		ServiceStatusID: in.ServiceStatusID,
		ContactID:       inward.ContactID, // snapshot, not re-derived later
		Diagnosis:       in.Diagnosis,
		EstimatedCost:   in.EstimatedCost,
		AdvancePaid:     in.AdvancePaid,
		ReceivedAt:      time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(card).Error; err != nil {
			return err
		}
		card.JobNo = fmt.Sprintf("JOB-%06d", card.ID)
		if err := tx.Model(card).Update("job_no", card.JobNo).Error; err != nil {
			return err
		}
		return tx.Model(&models.ServiceInward{}).
			Where("id = ?", inward.ID).
			Update("job_created", true).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("job number %s already issued", card.JobNo)
		}
		return nil, err
	}

	log.Printf("✅ Created job card %s for inward %s", card.JobNo, inward.RMA)
	return card, nil
}

// CreateAssignmentInput carries a technician work record.
type CreateAssignmentInput struct {
	JobCardID        uint                   `json:"job_card_id"`
	UserID           uuid.UUID              `json:"user_id"`
	ServiceStatusID  uuid.UUID              `json:"service_status_id"`
	Stage            models.AssignmentStage `json:"stage"`
	StartedAt        *time.Time             `json:"started_at"`
	CompletedAt      *time.Time             `json:"completed_at"`
	TimeSpentMinutes int                    `json:"time_spent_minutes"`
	Report           string                 `json:"report"`
	Remarks          string                 `json:"remarks"`
}

// CreateAssignment records one technician's bench work against a job card.
// Several assignments may pile up per card over time; completion order is
// validated but nothing limits how many stay open.
func (s *WorkflowService) CreateAssignment(in CreateAssignmentInput) (*models.JobAssignment, error) {
	if !in.Stage.Valid() {
		return nil, models.NewValidationError("stage", fmt.Sprintf("unknown stage %q", in.Stage))
	}
	if in.StartedAt != nil && in.CompletedAt != nil && in.CompletedAt.Before(*in.StartedAt) {
		return nil, models.NewValidationError("completed_at", "must not be before started_at")
	}
	if err := s.jobCardExists(in.JobCardID); err != nil {
		return nil, err
	}
	if err := statusExists(s.db, in.ServiceStatusID); err != nil {
		return nil, err
	}
	if err := userExists(s.db, in.UserID); err != nil {
		return nil, err
	}

	assignment := &models.JobAssignment{
		JobCardID:        in.JobCardID,
		UserID:           in.UserID,
		ServiceStatusID:  in.ServiceStatusID,
		Stage:            in.Stage,
		AssignedAt:       time.Now(),
		StartedAt:        in.StartedAt,
		CompletedAt:      in.CompletedAt,
		TimeSpentMinutes: in.TimeSpentMinutes,
		Report:           in.Report,
		Remarks:          in.Remarks,
	}
	if err := s.db.Create(assignment).Error; err != nil {
		return nil, err
	}
	log.Printf("✅ Assigned job card %d to technician %s (%s)", in.JobCardID, in.UserID, in.Stage)
	return assignment, nil
}

// CreateOutServiceInput carries a sub-contracted repair leg.
type CreateOutServiceInput struct {
	JobCardID       uint       `json:"job_card_id"`
	ServiceName     string     `json:"service_name"`
	SentAt          time.Time  `json:"sent_at"`
	ExpectedBack    *time.Time `json:"expected_back"`
	Cost            float64    `json:"cost"`
	ServiceStatusID uuid.UUID  `json:"service_status_id"`
	UserID          uuid.UUID  `json:"user_id"`
	MaterialName    string     `json:"material_name"`
	Notes           string     `json:"notes"`
}

// CreateOutService records that the device left for an external partner.
func (s *WorkflowService) CreateOutService(in CreateOutServiceInput) (*models.OutServiceCenter, error) {
	if in.ServiceName == "" {
		return nil, models.NewValidationError("service_name", "required")
	}
	if in.ExpectedBack != nil && !in.ExpectedBack.After(in.SentAt) {
		return nil, models.NewValidationError("expected_back", "must be after sent_at")
	}
	if err := s.jobCardExists(in.JobCardID); err != nil {
		return nil, err
	}
	if err := statusExists(s.db, in.ServiceStatusID); err != nil {
		return nil, err
	}
	if err := userExists(s.db, in.UserID); err != nil {
		return nil, err
	}

	out := &models.OutServiceCenter{
		JobCardID:       in.JobCardID,
		ServiceName:     in.ServiceName,
		SentAt:          in.SentAt,
		ExpectedBack:    in.ExpectedBack,
		Cost:            in.Cost,
		ServiceStatusID: in.ServiceStatusID,
		UserID:          in.UserID,
		MaterialName:    in.MaterialName,
		Notes:           in.Notes,
	}
	if err := s.db.Create(out).Error; err != nil {
		return nil, err
	}
	log.Printf("✅ Job card %d sent out to %s", in.JobCardID, in.ServiceName)
	return out, nil
}

// CreateDeliveryInput carries the terminal staging record.
type CreateDeliveryInput struct {
	JobCardID       uint      `json:"job_card_id"`
	UserID          uuid.UUID `json:"user_id"`
	EngineerNote    string    `json:"engineer_note"`
	FutureNote      string    `json:"future_note"`
	BillingDetails  string    `json:"billing_details"`
	BillingAmount   float64   `json:"billing_amount"`
	ServiceStatusID uuid.UUID `json:"service_status_id"`
	DeliveredOTP    string    `json:"delivered_otp"`
}

// CreateReadyForDelivery stages a job card for handover. At most one live
// (non-trashed) record may exist per job card; once the existing one is
// trashed, staging again succeeds.
func (s *WorkflowService) CreateReadyForDelivery(in CreateDeliveryInput) (*models.ReadyForDelivery, error) {
	if err := s.jobCardExists(in.JobCardID); err != nil {
		return nil, err
	}
	if err := statusExists(s.db, in.ServiceStatusID); err != nil {
		return nil, err
	}
	if err := userExists(s.db, in.UserID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.ReadyForDelivery{}).
		Where("job_card_id = ?", in.JobCardID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.NewConflictError("job card %d is already staged for delivery", in.JobCardID)
	}

	rfd := &models.ReadyForDelivery{
		JobCardID:       in.JobCardID,
		UserID:          in.UserID,
		EngineerNote:    in.EngineerNote,
		FutureNote:      in.FutureNote,
		BillingDetails:  in.BillingDetails,
		BillingAmount:   in.BillingAmount,
		ServiceStatusID: in.ServiceStatusID,
		DeliveredOTP:    in.DeliveredOTP,
	}
	if err := s.db.Create(rfd).Error; err != nil {
		// The partial unique index closes the race the count check leaves open.
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("job card %d is already staged for delivery", in.JobCardID)
		}
		return nil, err
	}
	log.Printf("✅ Job card %d staged for delivery", in.JobCardID)
	return rfd, nil
}

// ConfirmDelivery records the handover on the staging row and stamps the
// job card's delivered_at. When an OTP was issued at staging time it must
// be echoed back.
func (s *WorkflowService) ConfirmDelivery(rfdID string, otp string, confirmedBy uuid.UUID) (*models.ReadyForDelivery, error) {
	var rfd models.ReadyForDelivery
	if err := s.db.First(&rfd, "id = ?", rfdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "ready for delivery", ID: rfdID}
		}
		return nil, err
	}
	if rfd.DeliveredConfirmedAt != nil {
		return nil, models.NewConflictError("delivery already confirmed")
	}
	if rfd.DeliveredOTP != "" && rfd.DeliveredOTP != otp {
		return nil, models.NewValidationError("delivered_otp", "does not match")
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&rfd).Updates(map[string]interface{}{
			"delivered_confirmed_at": now,
			"delivered_confirmed_by": confirmedBy,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.JobCard{}).
			Where("id = ?", rfd.JobCardID).
			Update("delivered_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	rfd.DeliveredConfirmedAt = &now
	rfd.DeliveredConfirmedBy = &confirmedBy
	log.Printf("✅ Job card %d delivered", rfd.JobCardID)
	return &rfd, nil
}

func (s *WorkflowService) jobCardExists(id uint) error {
	var count int64
	if err := s.db.Model(&models.JobCard{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &models.NotFoundError{Entity: "job card", ID: fmt.Sprint(id)}
	}
	return nil
}

// statusExists and userExists back the foreign-key fields every disposition
// record carries; without them an unknown id would surface as a raw 23503
// from postgres instead of a field-level error.
func statusExists(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.ServiceStatus{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewValidationError("service_status_id", "unknown service status")
	}
	return nil
}

func userExists(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewValidationError("user_id", "unknown user")
	}
	return nil
}
