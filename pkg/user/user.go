package user

import "context"

const adminRole = "admin"

// Profile is the authenticated user record from GET /users/details.
type Profile struct {
	ID      string `json:"_id"`
	IsAdmin bool   `json:"isAdmin"`
	Role    string `json:"role"`
}

// Admin normalizes the server's two admin signals into one boolean. The
// backend data model carries both an explicit flag and a role string, so
// either one grants admin. Callers must use this and never re-check the raw
// fields.
func (p *Profile) Admin() bool {
	return p.IsAdmin || p.Role == adminRole
}

// RegisterForm is the new-account payload for POST /users/register.
type RegisterForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	UserName  string `json:"userName" validate:"required"`
	MobileNo  string `json:"mobileNo" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Remote is the auth surface of the REST API.
type Remote interface {
	Login(ctx context.Context, identifier, password string) (token string, err error)
	Register(ctx context.Context, form RegisterForm) error
	Details(ctx context.Context, token string) (*Profile, error)
}
