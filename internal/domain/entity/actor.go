package entity

// Role is the access level of an authenticated principal
type Role string

const (
	RoleUser     Role = "USER"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// IsStaff returns true for roles allowed to perform verification,
// payment confirmation and release actions
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// IsValid returns true if the role is recognized
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleEmployee || r == RoleAdmin
}

// Actor is the authenticated principal performing a workflow action.
// The engine consumes only the user id and role; how they were
// authenticated is the identity provider's concern.
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Owns returns true if the actor is the citizen who created the submission
func (a Actor) Owns(s *Submission) bool {
	return s != nil && a.UserID == s.OwnerUserID
}
