package models

import "time"

const (
	RoleParent = "parent"
	RoleKid    = "kid"
)

// Profile mirrors the hosted-auth profile row; this service only reads it.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) IsParent() bool { return p.Role == RoleParent }
