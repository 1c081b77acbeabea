package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// RoleHandler administers roles and their permission grants. A role with
// users attached cannot be deleted, trashed or purged; detach the users
// first.
type RoleHandler struct {
	*Resource[models.Role]
	db *gorm.DB
}

func NewRoleHandler(db *gorm.DB) *RoleHandler {
	life := NewLifecycle[models.Role](db, "role").
		WithInUseGuard(roleInUse, true)
	res := NewResource(life, "role", 10, []string{"name"}).
		WithPreloads([]string{"Permissions"}, []string{"Permissions"}).
		WithBeforeSave(func(r *http.Request, role *models.Role, isCreate bool) error {
			if role.Name == "" {
				return models.NewValidationError("name", "required")
			}
			return nil
		})
	return &RoleHandler{Resource: res, db: db}
}

func roleInUse(db *gorm.DB, id string) (string, error) {
	var count int64
	if err := db.Unscoped().Model(&models.User{}).
		Where("role_id = ?", id).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return fmt.Sprintf("%d users hold it", count), nil
	}
	return "", nil
}

type setPermissionsReq struct {
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// SetPermissions replaces the role's grant set wholesale. Users holding the
// role pick the change up on their next permission check.
func (h *RoleHandler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var role models.Role
	if err := h.db.First(&role, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(w, &models.NotFoundError{Entity: "role", ID: id})
			return
		}
		respondError(w, err)
		return
	}

	var req setPermissionsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}

	var perms []models.Permission
	if len(req.PermissionIDs) > 0 {
		if err := h.db.Where("id IN ?", req.PermissionIDs).Find(&perms).Error; err != nil {
			respondError(w, err)
			return
		}
		if len(perms) != len(req.PermissionIDs) {
			respondError(w, models.NewValidationError("permission_ids", "one or more permissions do not exist"))
			return
		}
	}

	if err := h.db.Model(&role).Association("Permissions").Replace(perms); err != nil {
		respondError(w, err)
		return
	}
	role.Permissions = perms
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "role permissions updated", "data": role})
}

// PermissionHandler lists and maintains the grantable permission catalog.
// A permission attached to any role cannot leave the store.
type PermissionHandler struct {
	*Resource[models.Permission]
	db *gorm.DB
}

func NewPermissionHandler(db *gorm.DB) *PermissionHandler {
	life := NewLifecycle[models.Permission](db, "permission").
		WithInUseGuard(permissionInUse, true)
	res := NewResource(life, "permission", 100,
		[]string{"name", "resource", "action"}).
		WithBeforeSave(func(r *http.Request, p *models.Permission, isCreate bool) error {
			if p.Resource == "" || p.Action == "" {
				return models.NewValidationError("name", "resource and action are required")
			}
			p.Name = p.Resource + ":" + p.Action
			return nil
		})
	return &PermissionHandler{Resource: res, db: db}
}

func permissionInUse(db *gorm.DB, id string) (string, error) {
	var count int64
	if err := db.Model(&models.RolePermission{}).
		Where("permission_id = ?", id).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return fmt.Sprintf("%d roles grant it", count), nil
	}
	return "", nil
}
