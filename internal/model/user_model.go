package model

import "time"

const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	About string `json:"about,omitempty"`

	PasswordHash string `json:"-"` // never JSON-encode
	PasswordSalt string `json:"-"`

	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`

	VerificationToken *string    `json:"-"`
	ResetToken        *string    `json:"-"`
	ResetExpires      *time.Time `json:"-"`

	GoogleID *string `json:"-"`
	GithubID *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
