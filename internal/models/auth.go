package models

// RegisterRequest is the public sign-up payload.
type RegisterRequest struct {
	Phone    string  `json:"phone" validate:"required,min=6"`
	Password string  `json:"password" validate:"required,min=4"`
	Name     *string `json:"name"`
	Role     Role    `json:"role" validate:"omitempty,oneof=CUSTOMER OWNER COURIER"`
}

// LoginRequest carries phone/password credentials.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,min=6"`
	Password string `json:"password" validate:"required,min=4"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
