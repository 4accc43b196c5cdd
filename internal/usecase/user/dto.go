package user

import "time"

type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email,max=254"`
	Username    string  `json:"username" validate:"required,min=3,max=150,username"`
	Password    string  `json:"password" validate:"required,min=8"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	Age         *int    `json:"age" validate:"omitempty,min=0,max=120"`
	Role        string  `json:"role" validate:"omitempty,user_role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token for rotation or logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// UpdateRequest is a partial profile update; nil fields are left alone.
type UpdateRequest struct {
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	Username    *string `json:"username" validate:"omitempty,min=3,max=150,username"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	Age         *int    `json:"age" validate:"omitempty,min=0,max=120"`
	Role        *string `json:"role" validate:"omitempty,user_role"`
}

type UserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	PhoneNumber *string   `json:"phone_number"`
	Role        string    `json:"role"`
	Age         *int      `json:"age"`
	AvatarURL   *string   `json:"avatar_url"`
	PermitURL   *string   `json:"permit_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"access"`
	RefreshToken string        `json:"refresh"`
	ExpiresAt    int64         `json:"expires_at"`
}

// ImageUpload is one validated multipart file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
}
