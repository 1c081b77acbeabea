package config

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// RunAllSeeding runs all seeding operations in the correct order.
// Every step skips rows that already exist, so re-running is harmless.
func RunAllSeeding() error {
	log.Println("=== Starting Database Seeding ===")

	log.Println("[1/4] Seeding Permissions and Roles...")
	SeedPermissions()

	log.Println("[2/4] Seeding Service Statuses...")
	SeedServiceStatuses()

	log.Println("[3/4] Seeding Contact Types...")
	SeedContactTypes()

	log.Println("[4/4] Seeding Default Users...")
	SeedUsers()

	log.Println("=== Database Seeding Complete ===")
	return nil
}

// seedResources lists every entity the permission matrix covers.
var seedResources = []string{
	"contact", "contact_type", "inward", "jobcard", "assignment",
	"outservice", "delivery", "calllog", "note", "part", "status",
	"todo", "user", "role", "permission", "export",
}

// seedActions mirrors the authorization gate's action set plus the
// lifecycle extensions.
var seedActions = []string{"viewAny", "view", "create", "update", "delete", "restore", "forceDelete"}

// SeedPermissions creates the permission matrix and the three default roles.
func SeedPermissions() {
	var perms []models.Permission
	for _, res := range seedResources {
		for _, act := range seedActions {
			perms = append(perms, models.Permission{
				ID:       uuid.New(),
				Name:     res + ":" + act,
				Resource: res,
				Action:   act,
			})
		}
	}

	for _, p := range perms {
		var existing models.Permission
		err := DB.Where("name = ?", p.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := DB.Create(&p).Error; err != nil {
				log.Printf("failed to seed permission %s: %v", p.Name, err)
			}
		}
	}

	seedRole("super_admin", "Full access", nil) // wildcard handled in middleware
	seedRole("frontdesk", "Intake, contacts, call logs and deliveries", []string{
		"contact:*", "contact_type:viewAny", "contact_type:view",
		"inward:*", "jobcard:viewAny", "jobcard:view", "jobcard:create",
		"delivery:*", "calllog:*", "note:*", "todo:*", "export:viewAny",
		"status:viewAny", "status:view", "part:viewAny", "part:view",
	})
	seedRole("technician", "Bench work and dispositions", []string{
		"inward:viewAny", "inward:view", "jobcard:viewAny", "jobcard:view", "jobcard:update",
		"assignment:*", "outservice:*", "delivery:viewAny", "delivery:view", "delivery:create",
		"note:*", "part:viewAny", "part:view", "status:viewAny", "status:view", "todo:*",
	})
}

func seedRole(name, description string, permNames []string) {
	var role models.Role
	err := DB.Where("name = ?", name).First(&role).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	role = models.Role{ID: uuid.New(), Name: name, Description: description, IsActive: true}
	if err := DB.Create(&role).Error; err != nil {
		log.Printf("failed to seed role %s: %v", name, err)
		return
	}

	if len(permNames) == 0 {
		return
	}
	var perms []models.Permission
	for _, pn := range permNames {
		var matched []models.Permission
		if pn[len(pn)-1] == '*' {
			DB.Where("resource = ?", pn[:len(pn)-2]).Find(&matched)
		} else {
			DB.Where("name = ?", pn).Find(&matched)
		}
		perms = append(perms, matched...)
	}
	if err := DB.Model(&role).Association("Permissions").Append(perms); err != nil {
		log.Printf("failed to attach permissions to role %s: %v", name, err)
	}
}

// SeedServiceStatuses creates the default job card status ladder.
func SeedServiceStatuses() {
	statuses := []models.ServiceStatus{
		{Name: "Received", Colour: "grey"},
		{Name: "In Progress", Colour: "blue"},
		{Name: "Waiting for Spares", Colour: "orange"},
		{Name: "Out for Service", Colour: "purple"},
		{Name: "Ready", Colour: "green"},
		{Name: "Delivered", Colour: "teal"},
	}
	for _, s := range statuses {
		var existing models.ServiceStatus
		err := DB.Where("name = ?", s.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := DB.Create(&s).Error; err != nil {
				log.Printf("failed to seed status %s: %v", s.Name, err)
			}
		}
	}
}

// SeedContactTypes creates the default contact categories.
func SeedContactTypes() {
	for _, name := range []string{"Individual", "Business"} {
		var existing models.ContactType
		err := DB.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := DB.Create(&models.ContactType{Name: name}).Error; err != nil {
				log.Printf("failed to seed contact type %s: %v", name, err)
			}
		}
	}
}

// SeedUsers creates the initial super admin if no users exist yet.
func SeedUsers() {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin@123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash seed password: %v", err)
		return
	}

	var adminRole models.Role
	if err := DB.Where("name = ?", "super_admin").First(&adminRole).Error; err != nil {
		log.Printf("super_admin role missing, skipping user seed: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        "admin@servicedesk.local",
		Phone:        "9999999999",
		PasswordHash: string(hash),
		Role:         adminRole.Name,
		RoleID:       &adminRole.ID,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to seed admin user: %v", err)
		return
	}
	log.Println("Seeded default admin user (change the password immediately)")
}
