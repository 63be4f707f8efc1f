package model

// User is an administrative user record. Username and email are unique.
// PasswordHash is stored in the document but stripped from every API
// response; no endpoint verifies credentials.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email_shape"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// Sanitized returns a copy safe to hand back to callers.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
