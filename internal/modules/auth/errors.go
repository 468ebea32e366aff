package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrPhoneTaken         = errors.New("phone number already taken")
	ErrDuplicate          = errors.New("duplicate unique field")
	ErrInvalidRole        = errors.New("invalid role")
)
