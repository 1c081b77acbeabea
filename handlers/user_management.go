package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/servicedesk/middleware"
	"p9e.in/servicedesk/models"
)

// UserHandler is the staff account admin surface. Passwords only enter
// through Create and the auth change-password endpoint; updates can never
// smuggle one in. A user cannot trash or purge their own account.
type UserHandler struct {
	*Resource[models.User]
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	life := NewLifecycle[models.User](db, "user")
	res := NewResource(life, "user", 10, []string{"name", "email", "phone"}).
		WithPreloads([]string{"RoleModel"}, []string{"RoleModel.Permissions"})
	return &UserHandler{Resource: res, db: db}
}

type createUserReq struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Password string     `json:"password"`
	RoleID   *uuid.UUID `json:"role_id"`
	IsActive *bool      `json:"is_active"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	if req.Name == "" {
		respondError(w, models.NewValidationError("name", "required"))
		return
	}
	if req.Email == "" {
		respondError(w, models.NewValidationError("email", "required"))
		return
	}
	if len(req.Password) < 8 {
		respondError(w, models.NewValidationError("password", "must be at least 8 characters"))
		return
	}

	roleName, err := resolveRoleName(h.db, req.RoleID)
	if err != nil {
		respondError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, err)
		return
	}

	u := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         roleName,
		RoleID:       req.RoleID,
		IsActive:     true,
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := h.db.Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(w, models.NewConflictError("email or phone already taken"))
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "user created", "data": u})
}

type updateUserReq struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Phone    *string    `json:"phone"`
	RoleID   *uuid.UUID `json:"role_id"`
	IsActive *bool      `json:"is_active"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var u models.User
	if err := h.db.First(&u, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(w, &models.NotFoundError{Entity: "user", ID: id})
			return
		}
		respondError(w, err)
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	if req.Name != nil {
		if *req.Name == "" {
			respondError(w, models.NewValidationError("name", "required"))
			return
		}
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.RoleID != nil {
		roleName, err := resolveRoleName(h.db, req.RoleID)
		if err != nil {
			respondError(w, err)
			return
		}
		u.RoleID = req.RoleID
		u.Role = roleName
	}

	if err := h.db.Save(&u).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(w, models.NewConflictError("email or phone already taken"))
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "user updated", "data": u})
}

func (h *UserHandler) Trash(w http.ResponseWriter, r *http.Request) {
	if err := h.guardSelf(r); err != nil {
		respondError(w, err)
		return
	}
	h.Resource.Trash(w, r)
}

func (h *UserHandler) ForceDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.guardSelf(r); err != nil {
		respondError(w, err)
		return
	}
	h.Resource.ForceDelete(w, r)
}

func (h *UserHandler) guardSelf(r *http.Request) error {
	if mux.Vars(r)["id"] == middleware.GetUserID(r) {
		return models.NewConflictError("cannot delete your own account")
	}
	return nil
}

// resolveRoleName maps a role id to its name for the denormalized claims
// field. A nil id leaves the user roleless.
func resolveRoleName(db *gorm.DB, roleID *uuid.UUID) (string, error) {
	if roleID == nil {
		return "", nil
	}
	var role models.Role
	if err := db.First(&role, "id = ?", roleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", models.NewValidationError("role_id", "unknown role")
		}
		return "", err
	}
	return role.Name, nil
}
