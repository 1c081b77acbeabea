package utils

import "strings"

// MatchesPermission checks if a held permission satisfies a required one.
// Permission format is "resource:action"; either part may be a wildcard:
//
//   - "*:*:*" or "*" matches everything (super admin wildcard)
//   - "inward:*" matches every action on inwards
//   - "*:view" matches view on every resource
//   - "inward:create" is an exact match
func MatchesPermission(userPerm, requiredPerm string) bool {
	// Exact match (fastest path)
	if userPerm == requiredPerm {
		return true
	}

	// Full wildcard
	if userPerm == "*:*:*" || userPerm == "*" {
		return true
	}

	userParts := strings.Split(userPerm, ":")
	reqParts := strings.Split(requiredPerm, ":")

	// Both sides need at least resource:action; anything shorter only
	// matches exactly (handled above).
	if len(userParts) < 2 || len(reqParts) < 2 {
		return false
	}

	resourceMatch := userParts[0] == "*" || userParts[0] == reqParts[0]
	actionMatch := userParts[1] == "*" || userParts[1] == reqParts[1]
	return resourceMatch && actionMatch
}
