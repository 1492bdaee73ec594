package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Identity is the authenticated principal carried in the JWT claims and in
// the request context after middleware verification.
type Identity struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Tag   *string `json:"tag,omitempty"`
}

type LoginResponse struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Tag   *string `json:"tag,omitempty"`
}
