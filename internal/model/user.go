package model

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleTeam       Role = "team"
	RoleGuest      Role = "guest"
)

// Capabilities is the set of order operations a role may perform. It is
// derived once per actor and passed around instead of re-checking the role
// at every call site.
type Capabilities struct {
	ViewOrders   bool
	DeleteOrders bool
}

func CapabilitiesFor(role Role) Capabilities {
	return Capabilities{
		ViewOrders:   role == RoleSuperadmin || role == RoleAdmin || role == RoleTeam,
		DeleteOrders: role == RoleSuperadmin,
	}
}

type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
