package auth

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// rank orders roles from most to least privileged.
var rank = map[string]int{
	RoleAdmin:   3,
	RoleManager: 2,
	RoleMember:  1,
}

// PrimaryRole picks the single role reported to clients: admin over manager over member.
func PrimaryRole(roles []string) string {
	best := RoleMember
	for _, r := range roles {
		if rank[r] > rank[best] {
			best = r
		}
	}
	return best
}

func IsAdmin(claims *Claims) bool {
	return claims.HasRole(RoleAdmin)
}

// IsManagerOrHigher is the guard for staff views shared by managers and admins.
func IsManagerOrHigher(claims *Claims) bool {
	return claims.HasRole(RoleManager) || claims.HasRole(RoleAdmin)
}
