package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff member: front desk, technician or admin.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Email        string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:50" json:"role"` // denormalized role name carried in JWT claims
	RoleID       *uuid.UUID     `gorm:"type:uuid" json:"role_id,omitempty"`
	RoleModel    *Role          `gorm:"foreignKey:RoleID" json:"role_model,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// HasPermission checks the user's role for a permission.
func (u *User) HasPermission(permissionName string) bool {
	if u.RoleModel != nil {
		return u.RoleModel.HasPermission(permissionName)
	}
	return false
}

// AllPermissions returns the permission names granted by the user's role.
func (u *User) AllPermissions() []string {
	if u.RoleModel == nil {
		return nil
	}
	if u.RoleModel.Name == "super_admin" {
		return []string{"*:*:*"}
	}
	perms := make([]string, 0, len(u.RoleModel.Permissions))
	for _, p := range u.RoleModel.Permissions {
		perms = append(perms, p.Name)
	}
	return perms
}
