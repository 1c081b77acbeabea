package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobAssignment is one technician's work record against a job card. A job
// card may accumulate several assignments over time (reassignment, repeat
// visits); an assignment is "open" while CompletedAt is null.
type JobAssignment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	JobCardID        uint            `gorm:"index;not null" json:"job_card_id"`
	JobCard          *JobCard        `gorm:"foreignKey:JobCardID" json:"job_card,omitempty"`
	UserID           uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	User             *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ServiceStatusID  uuid.UUID       `gorm:"type:uuid;not null" json:"service_status_id"`
	ServiceStatus    *ServiceStatus  `gorm:"foreignKey:ServiceStatusID" json:"service_status,omitempty"`
	Stage            AssignmentStage `gorm:"size:30;not null" json:"stage"`
	AssignedAt       time.Time       `json:"assigned_at"`
	StartedAt        *time.Time      `json:"started_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"` // must be >= StartedAt when both present
	TimeSpentMinutes int             `json:"time_spent_minutes"`
	Report           string          `gorm:"type:text" json:"report,omitempty"`
	Remarks          string          `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (a *JobAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// OutServiceCenter records a sub-contracted repair leg: the device left the
// building for an external service partner.
type OutServiceCenter struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobCardID       uint           `gorm:"index;not null" json:"job_card_id"`
	JobCard         *JobCard       `gorm:"foreignKey:JobCardID" json:"job_card,omitempty"`
	ServiceName     string         `gorm:"size:100;not null" json:"service_name"`
	SentAt          time.Time      `json:"sent_at"`
	ExpectedBack    *time.Time     `json:"expected_back,omitempty"` // must be after SentAt when present
	Cost            float64        `json:"cost"`
	ServiceStatusID uuid.UUID      `gorm:"type:uuid;not null" json:"service_status_id"`
	ServiceStatus   *ServiceStatus `gorm:"foreignKey:ServiceStatusID" json:"service_status,omitempty"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"` // staff member responsible
	User            *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MaterialName    string         `gorm:"size:100" json:"material_name,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *OutServiceCenter) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// ReadyForDelivery is the terminal staging record before handover. At most
// one non-trashed row may exist per job card (enforced by the workflow
// service plus a partial unique index).
type ReadyForDelivery struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobCardID            uint           `gorm:"index;not null" json:"job_card_id"`
	JobCard              *JobCard       `gorm:"foreignKey:JobCardID" json:"job_card,omitempty"`
	UserID               uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"` // engineer
	User                 *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EngineerNote         string         `gorm:"type:text" json:"engineer_note,omitempty"`
	FutureNote           string         `gorm:"type:text" json:"future_note,omitempty"`
	BillingDetails       string         `gorm:"type:text" json:"billing_details,omitempty"`
	BillingAmount        float64        `json:"billing_amount"`
	ServiceStatusID      uuid.UUID      `gorm:"type:uuid;not null" json:"service_status_id"`
	ServiceStatus        *ServiceStatus `gorm:"foreignKey:ServiceStatusID" json:"service_status,omitempty"`
	DeliveredOTP         string         `gorm:"size:10" json:"delivered_otp,omitempty"`
	DeliveredConfirmedAt *time.Time     `json:"delivered_confirmed_at,omitempty"`
	DeliveredConfirmedBy *uuid.UUID     `gorm:"type:uuid" json:"delivered_confirmed_by,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *ReadyForDelivery) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

func (ReadyForDelivery) TableName() string {
	return "ready_for_deliveries"
}
