package utils

import "testing"

func TestMatchesPermission(t *testing.T) {
	tests := []struct {
		name         string
		userPerm     string
		requiredPerm string
		expected     bool
	}{
		// Exact matches
		{"exact match same permission", "inward:create", "inward:create", true},
		{"exact match different action", "inward:create", "inward:view", false},
		{"exact match different resource", "inward:create", "contact:create", false},

		// Full wildcard
		{"full wildcard *:*:*", "*:*:*", "inward:create", true},
		{"full wildcard *", "*", "anything:goes", true},
		{"full wildcard matches delete", "*:*:*", "role:delete", true},

		// Resource wildcard
		{"resource wildcard matches create", "jobcard:*", "jobcard:create", true},
		{"resource wildcard matches restore", "jobcard:*", "jobcard:restore", true},
		{"resource wildcard other resource", "jobcard:*", "contact:create", false},

		// Action wildcard
		{"action wildcard matches inward", "*:view", "inward:view", true},
		{"action wildcard matches todo", "*:view", "todo:view", true},
		{"action wildcard other action", "*:view", "inward:create", false},

		// Edge cases
		{"empty required permission", "inward:create", "", false},
		{"empty user permission", "", "inward:create", false},
		{"both empty", "", "", true},
		{"single part permission", "admin", "admin", true},
		{"single part vs two-part", "admin", "admin:view", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchesPermission(tt.userPerm, tt.requiredPerm)
			if result != tt.expected {
				t.Errorf("MatchesPermission(%q, %q) = %v, expected %v",
					tt.userPerm, tt.requiredPerm, result, tt.expected)
			}
		})
	}
}

func TestMatchesPermission_RoleScenarios(t *testing.T) {
	tests := []struct {
		name      string
		userPerms []string
		required  string
		expected  bool
	}{
		{"super admin has all access", []string{"*:*:*"}, "jobcard:forceDelete", true},
		{"frontdesk owns intake", []string{"inward:*", "contact:*"}, "inward:create", true},
		{"frontdesk cannot manage roles", []string{"inward:*", "contact:*"}, "role:create", false},
		{"technician views only", []string{"inward:viewAny", "inward:view"}, "inward:viewAny", true},
		{"technician cannot trash inwards", []string{"inward:viewAny", "inward:view"}, "inward:delete", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			has := false
			for _, p := range tt.userPerms {
				if MatchesPermission(p, tt.required) {
					has = true
					break
				}
			}
			if has != tt.expected {
				t.Errorf("permissions %v vs %q: expected %v, got %v",
					tt.userPerms, tt.required, tt.expected, has)
			}
		})
	}
}

func BenchmarkMatchesPermission_ExactMatch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MatchesPermission("inward:create", "inward:create")
	}
}

func BenchmarkMatchesPermission_WildcardMatch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MatchesPermission("*:*:*", "inward:create")
	}
}
