package dto

// RegisterRequest is the request body for user self-registration.
type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Qualification string `json:"qualification,omitempty"`
	DateOfBirth   string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
}

// UpdateProfileRequest carries partial profile updates. Nil fields are left
// unchanged.
type UpdateProfileRequest struct {
	FullName      *string `json:"full_name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Qualification *string `json:"qualification,omitempty"`
	DateOfBirth   *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Password      *string `json:"password,omitempty"`
}

// UserResponse represents a user in API responses. The password hash never
// leaves the service layer.
type UserResponse struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Qualification string `json:"qualification,omitempty"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
}

// UserListResponse wraps the admin user listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}
