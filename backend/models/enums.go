package models

// Role is the closed set of account roles.
type Role string

const (
	RoleClient    Role = "Client"
	RoleModerator Role = "Moderator"
	RoleAdmin     Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// IsStaff reports whether the role moderates content.
func (r Role) IsStaff() bool { return r == RoleModerator || r == RoleAdmin }

// Status is the lifecycle state shared by ideas and forums. Open -> Closed only.
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

func (s Status) String() string { return string(s) }
