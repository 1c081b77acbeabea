package middleware

import (
	"net/http"

	"p9e.in/servicedesk/config"
	"p9e.in/servicedesk/models"
	"p9e.in/servicedesk/utils"
)

// RequirePermission checks that the authenticated user holds the required
// permission ("resource:action", wildcards honored) before the handler runs.
// Every mutating and trash-listing route goes through this; a denial is a
// hard 403, never a silent skip.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// Super admins have all permissions
			if claims.Role == "super_admin" {
				next.ServeHTTP(w, r)
				return
			}

			var user models.User
			if err := config.DB.Preload("RoleModel.Permissions").First(&user, "id = ?", claims.UserID).Error; err != nil {
				http.Error(w, "user not found", http.StatusUnauthorized)
				return
			}

			if !HasAnyMatching(user.AllPermissions(), permission) {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HasAnyMatching reports whether any held permission satisfies the
// required one.
func HasAnyMatching(held []string, required string) bool {
	for _, p := range held {
		if utils.MatchesPermission(p, required) {
			return true
		}
	}
	return false
}

// Can checks a single permission for the acting user without failing the
// request; Index handlers use it to build the screen capability map.
func Can(r *http.Request, permission string) bool {
	claims := GetClaims(r)
	if claims == nil {
		return false
	}
	if claims.Role == "super_admin" {
		return true
	}
	user := GetUser(r)
	return HasAnyMatching(user.AllPermissions(), permission)
}

// CapabilityMap builds the `can` payload for an entity screen.
func CapabilityMap(r *http.Request, resource string) map[string]bool {
	return map[string]bool{
		"create": Can(r, resource+":create"),
		"delete": Can(r, resource+":delete"),
	}
}
