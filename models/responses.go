package models

// UserResponse is the public projection of an Identity. The secret hash is
// never part of any read path.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// NewUserResponse projects an Identity into its client-facing shape.
func NewUserResponse(identity Identity) UserResponse {
	return UserResponse{
		ID:          identity.ID,
		Username:    identity.Username,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	}
}

// MessageResponse is the generic success envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic failure envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse is returned by signup, signin and OAuth callback.
type SessionResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// FilesResponse lists an owner's shared files.
type FilesResponse struct {
	Success bool        `json:"success"`
	Files   []FileEntry `json:"files"`
}

// UploadResponse reports the outcome of a multi-file upload.
type UploadResponse struct {
	Success   bool     `json:"success"`
	URLs      []string `json:"urls,omitempty"`
	FileCount int      `json:"filecount,omitempty"`
	Error     string   `json:"error,omitempty"`
}
