package handlers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"p9e.in/servicedesk/models"
)

func TestCreateJobCardFlipsInwardFlag(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	inward := testInward(t, contact, user)
	status := seededStatus(t, "Received")

	svc := NewWorkflowService(testDB)
	card, err := svc.CreateJobCard(CreateJobCardInput{
		ServiceInwardID: inward.ID,
		ServiceStatusID: status.ID,
		Diagnosis:       "screen flicker",
	})
	if err != nil {
		t.Fatalf("create job card: %v", err)
	}

	if card.ContactID != contact.ID {
		t.Errorf("contact snapshot: got %s want %s", card.ContactID, contact.ID)
	}
	if want := fmt.Sprintf("JOB-%06d", card.ID); card.JobNo != want {
		t.Errorf("job no: got %s want %s", card.JobNo, want)
	}

	var reloaded models.ServiceInward
	if err := testDB.First(&reloaded, "id = ?", inward.ID).Error; err != nil {
		t.Fatalf("reload inward: %v", err)
	}
	if !reloaded.JobCreated {
		t.Error("job_created did not flip to true")
	}

	var conflict *models.ConflictError
	_, err = svc.CreateJobCard(CreateJobCardInput{
		ServiceInwardID: inward.ID,
		ServiceStatusID: status.ID,
	})
	if !errors.As(err, &conflict) {
		t.Fatalf("second job card on the same inward: want ConflictError, got %v", err)
	}

	var refs int64
	if err := testDB.Model(&models.JobCard{}).
		Where("service_inward_id = ?", inward.ID).Count(&refs).Error; err != nil {
		t.Fatalf("count cards: %v", err)
	}
	if refs != 1 {
		t.Errorf("want exactly one job card for the inward, got %d", refs)
	}
}

func TestJobNumbersStrictlyIncrease(t *testing.T) {
	first := testJobCard(t)
	second := testJobCard(t)
	if second.ID <= first.ID {
		t.Fatalf("ids not increasing: %d then %d", first.ID, second.ID)
	}

	// Purging a card must not free its number for reuse.
	life := NewLifecycle[models.JobCard](testDB, "job card")
	id := fmt.Sprint(second.ID)
	if err := life.Trash(id); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if err := life.ForceDelete(id); err != nil {
		t.Fatalf("purge: %v", err)
	}

	third := testJobCard(t)
	if third.ID <= second.ID {
		t.Errorf("job number reused after purge: %d then %d", second.ID, third.ID)
	}
}

func TestCreateJobCardUnknownInward(t *testing.T) {
	status := seededStatus(t, "Received")
	svc := NewWorkflowService(testDB)
	_, err := svc.CreateJobCard(CreateJobCardInput{
		ServiceInwardID: testContact(t).ID, // a uuid that is not an inward
		ServiceStatusID: status.ID,
	})
	if !isNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestJobCreatedSurvivesJobCardPurge(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	inward := testInward(t, contact, user)
	status := seededStatus(t, "Received")

	svc := NewWorkflowService(testDB)
	card, err := svc.CreateJobCard(CreateJobCardInput{
		ServiceInwardID: inward.ID,
		ServiceStatusID: status.ID,
	})
	if err != nil {
		t.Fatalf("create job card: %v", err)
	}

	life := NewLifecycle[models.JobCard](testDB, "job card")
	id := fmt.Sprint(card.ID)
	if err := life.Trash(id); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if err := life.ForceDelete(id); err != nil {
		t.Fatalf("purge: %v", err)
	}

	var reloaded models.ServiceInward
	if err := testDB.First(&reloaded, "id = ?", inward.ID).Error; err != nil {
		t.Fatalf("reload inward: %v", err)
	}
	if !reloaded.JobCreated {
		t.Error("job_created reverted after the job card was purged")
	}
}

func TestDuplicateRMARejected(t *testing.T) {
	user := testUser(t)
	contact := testContact(t)
	inward := testInward(t, contact, user)

	dup := &models.ServiceInward{
		RMA:          inward.RMA,
		ContactID:    contact.ID,
		MaterialType: models.MaterialDesktop,
		ReceivedByID: user.ID,
		ReceivedDate: models.JSONTime(time.Now()),
	}
	err := testDB.Create(dup).Error
	if err == nil {
		t.Fatal("duplicate rma accepted")
	}
	if !isUniqueViolation(err) {
		t.Fatalf("want unique violation, got %v", err)
	}
}

func TestCreateAssignmentValidation(t *testing.T) {
	card := testJobCard(t)
	user := testUser(t)
	status := seededStatus(t, "In Progress")
	svc := NewWorkflowService(testDB)

	_, err := svc.CreateAssignment(CreateAssignmentInput{
		JobCardID:       card.ID,
		UserID:          user.ID,
		ServiceStatusID: status.ID,
		Stage:           "Guesswork",
	})
	if !isValidation(err) {
		t.Fatalf("unknown stage: want ValidationError, got %v", err)
	}

	started := time.Now()
	completed := started.Add(-time.Hour)
	_, err = svc.CreateAssignment(CreateAssignmentInput{
		JobCardID:       card.ID,
		UserID:          user.ID,
		ServiceStatusID: status.ID,
		Stage:           models.StageNewCase,
		StartedAt:       &started,
		CompletedAt:     &completed,
	})
	if !isValidation(err) {
		t.Fatalf("completed before started: want ValidationError, got %v", err)
	}

	// An id that is no user's must fail validation, not the foreign key.
	_, err = svc.CreateAssignment(CreateAssignmentInput{
		JobCardID:       card.ID,
		UserID:          uuid.New(),
		ServiceStatusID: status.ID,
		Stage:           models.StageNewCase,
	})
	if !isValidation(err) {
		t.Fatalf("unknown technician: want ValidationError, got %v", err)
	}

	assignment, err := svc.CreateAssignment(CreateAssignmentInput{
		JobCardID:       card.ID,
		UserID:          user.ID,
		ServiceStatusID: status.ID,
		Stage:           models.StageNewCase,
	})
	if err != nil {
		t.Fatalf("valid assignment rejected: %v", err)
	}
	if assignment.AssignedAt.IsZero() {
		t.Error("assigned_at not stamped")
	}
}

func TestCreateOutServiceRejectsUnknownRefs(t *testing.T) {
	card := testJobCard(t)
	user := testUser(t)
	status := seededStatus(t, "Out for Service")
	svc := NewWorkflowService(testDB)

	_, err := svc.CreateOutService(CreateOutServiceInput{
		JobCardID:       card.ID,
		ServiceName:     "Chip-level lab",
		SentAt:          time.Now(),
		ServiceStatusID: uuid.New(),
		UserID:          user.ID,
	})
	if !isValidation(err) {
		t.Fatalf("unknown status: want ValidationError, got %v", err)
	}

	_, err = svc.CreateOutService(CreateOutServiceInput{
		JobCardID:       card.ID,
		ServiceName:     "Chip-level lab",
		SentAt:          time.Now(),
		ServiceStatusID: status.ID,
		UserID:          uuid.New(),
	})
	if !isValidation(err) {
		t.Fatalf("unknown user: want ValidationError, got %v", err)
	}

	if _, err := svc.CreateOutService(CreateOutServiceInput{
		JobCardID:       card.ID,
		ServiceName:     "Chip-level lab",
		SentAt:          time.Now(),
		ServiceStatusID: status.ID,
		UserID:          user.ID,
	}); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}

func TestReadyForDeliverySingleLiveRecord(t *testing.T) {
	card := testJobCard(t)
	user := testUser(t)
	status := seededStatus(t, "Ready")
	svc := NewWorkflowService(testDB)

	first, err := svc.CreateReadyForDelivery(CreateDeliveryInput{
		JobCardID:       card.ID,
		UserID:          user.ID,
		ServiceStatusID: status.ID,
	})
	if err != nil {
		t.Fatalf("first staging: %v", err)
	}

	var conflict *models.ConflictError
	_, err = svc.CreateReadyForDelivery(CreateDeliveryInput{
		JobCardID:       card.ID,
		UserID:          user.ID,
		ServiceStatusID: status.ID,
	})
	if !errors.As(err, &conflict) {
		t.Fatalf("second staging: want ConflictError, got %v", err)
	}

	// Once the live record is trashed, staging again is allowed.
	life := NewLifecycle[models.ReadyForDelivery](testDB, "ready for delivery")
	if err := life.Trash(first.ID.String()); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if _, err := svc.CreateReadyForDelivery(CreateDeliveryInput{
		JobCardID:       card.ID,
		UserID:          user.ID,
		ServiceStatusID: status.ID,
	}); err != nil {
		t.Fatalf("staging after trash: %v", err)
	}
}

func TestConfirmDelivery(t *testing.T) {
	card := testJobCard(t)
	user := testUser(t)
	status := seededStatus(t, "Ready")
	svc := NewWorkflowService(testDB)

	rfd, err := svc.CreateReadyForDelivery(CreateDeliveryInput{
		JobCardID:       card.ID,
		UserID:          user.ID,
		ServiceStatusID: status.ID,
		DeliveredOTP:    "4321",
	})
	if err != nil {
		t.Fatalf("staging: %v", err)
	}

	if _, err := svc.ConfirmDelivery(rfd.ID.String(), "9999", user.ID); !isValidation(err) {
		t.Fatalf("wrong otp: want ValidationError, got %v", err)
	}

	confirmed, err := svc.ConfirmDelivery(rfd.ID.String(), "4321", user.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.DeliveredConfirmedAt == nil {
		t.Error("confirmation timestamp missing")
	}

	var reloaded models.JobCard
	if err := testDB.First(&reloaded, "id = ?", card.ID).Error; err != nil {
		t.Fatalf("reload card: %v", err)
	}
	if reloaded.DeliveredAt == nil {
		t.Error("job card delivered_at not stamped")
	}

	var conflict *models.ConflictError
	if _, err := svc.ConfirmDelivery(rfd.ID.String(), "4321", user.ID); !errors.As(err, &conflict) {
		t.Fatalf("double confirm: want ConflictError, got %v", err)
	}
}

func isValidation(err error) bool {
	var v *models.ValidationError
	return errors.As(err, &v)
}
