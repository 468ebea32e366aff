package auth

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// TokenRequest is accepted as an OAuth2 password-grant style form body or as
// JSON, for compatibility with existing clients.
type TokenRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UpdateUserRequest carries a partial profile update; empty fields are left
// untouched.
type UpdateUserRequest struct {
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty" binding:"omitempty,email"`
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}
