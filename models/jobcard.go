package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceStatus is a reference row ("Received", "In Progress", ...) shared
// by job cards and disposition records. It cannot be deleted, trashed or
// purged while any job card still references it.
type ServiceStatus struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Colour    string         `gorm:"size:20" json:"colour,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *ServiceStatus) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// JobCard is the unit of repair work opened against a service inward.
//
// Unlike the uuid-keyed entities, job cards use a numeric auto-increment id:
// the visible job number is derived from the sequence-assigned id, so
// numbers stay strictly increasing and are never reused even after a purge.
//
// ContactID is a snapshot taken from the inward at creation time; if the
// inward's contact changes later the job card's copy does not follow.
type JobCard struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	JobNo           string         `gorm:"size:20;index;not null" json:"job_no"` // uniqueness via partial index, see migrations
	ServiceInwardID uuid.UUID      `gorm:"type:uuid;index;not null" json:"service_inward_id"`
	ServiceInward   *ServiceInward `gorm:"foreignKey:ServiceInwardID" json:"service_inward,omitempty"`
	ServiceStatusID uuid.UUID      `gorm:"type:uuid;not null" json:"service_status_id"`
	ServiceStatus   *ServiceStatus `gorm:"foreignKey:ServiceStatusID" json:"service_status,omitempty"`
	ContactID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"contact_id"`
	Contact         *Contact       `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Diagnosis       string         `gorm:"type:text" json:"diagnosis,omitempty"`
	EstimatedCost   float64        `json:"estimated_cost"`
	AdvancePaid     float64        `json:"advance_paid"`
	FinalBill       float64        `json:"final_bill"`
	FinalStatus     string         `gorm:"size:100" json:"final_status,omitempty"` // free-text label, not an enum
	SparesApplied   string         `gorm:"type:text" json:"spares_applied,omitempty"`
	ReceivedAt      time.Time      `json:"received_at"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (JobCard) TableName() string {
	return "job_cards"
}
