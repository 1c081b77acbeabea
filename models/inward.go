package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ServiceInward is a physical intake event: one device received at the
// front desk. RMA is the unique business key printed on the receipt.
//
// JobCreated is derived: true iff exactly one non-deleted JobCard references
// this inward. It is flipped by the workflow service when a job card is
// opened and is intentionally never reverted when that job card is trashed
// or purged.
type ServiceInward struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RMA          string         `gorm:"column:rma;size:50;uniqueIndex;not null" json:"rma"`
	ContactID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"contact_id"`
	Contact      *Contact       `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	MaterialType MaterialType   `gorm:"size:20;not null" json:"material_type"`
	Brand        string         `gorm:"size:50" json:"brand,omitempty"`
	Model        string         `gorm:"size:100" json:"model,omitempty"`
	SerialNo     *string        `gorm:"size:100;uniqueIndex" json:"serial_no,omitempty"`
	Passwords    string         `gorm:"size:255" json:"passwords,omitempty"`
	Observation  string         `gorm:"type:text" json:"observation,omitempty"`
	Accessories  pq.StringArray `gorm:"type:text[]" json:"accessories,omitempty"`
	Photos       datatypes.JSON `gorm:"type:jsonb" json:"photos,omitempty"`
	ReceivedByID uuid.UUID      `gorm:"type:uuid;not null" json:"received_by_id"`
	ReceivedBy   *User          `gorm:"foreignKey:ReceivedByID" json:"received_by,omitempty"`
	ReceivedDate JSONTime       `gorm:"not null" json:"received_date"`
	JobCreated   bool           `gorm:"default:false" json:"job_created"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (si *ServiceInward) BeforeCreate(tx *gorm.DB) (err error) {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return
}

func (ServiceInward) TableName() string {
	return "service_inwards"
}
