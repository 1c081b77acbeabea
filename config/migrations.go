package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250901_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.User{}, &models.Permission{}, &models.Role{}, &models.RolePermission{},
					&models.ContactType{}, &models.Contact{},
					&models.ServiceStatus{}, &models.ServiceInward{}, &models.JobCard{},
					&models.JobAssignment{}, &models.OutServiceCenter{}, &models.ReadyForDelivery{},
				)
			},
		},
		{
			ID: "20250901_create_notes_and_aux_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.CallLog{}, &models.InwardNote{}, &models.CallLogNote{},
					&models.ServicePart{}, &models.Todo{},
				)
			},
		},
		{
			// Job numbers are derived from the sequence-assigned id right
			// after insert; the row briefly holds '' inside the creating
			// transaction, so uniqueness is enforced on the filled values.
			ID: "20250901_job_no_unique_when_assigned",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(
					"CREATE UNIQUE INDEX IF NOT EXISTS idx_job_cards_job_no " +
						"ON job_cards (job_no) WHERE job_no <> ''",
				).Error
			},
		},
		{
			// At most one live ready-for-delivery row per job card. The
			// workflow service checks first so the caller gets a clean
			// conflict; the index closes the race window.
			ID: "20250901_rfd_unique_live_job_card",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(
					"CREATE UNIQUE INDEX IF NOT EXISTS idx_rfd_live_job_card " +
						"ON ready_for_deliveries (job_card_id) WHERE deleted_at IS NULL",
				).Error
			},
		},
	})
	return m.Migrate()
}
