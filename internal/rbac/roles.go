package rbac

// Role names. Keep these stable; they are stored on users and checked here.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

func IsKnownRole(role string) bool { return role == RoleUser || role == RoleAdmin }
