package models

// SignupRequest carries the fields required to create a password account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest carries the credentials for a password sign-in.
// Login accepts either the username or the email.
type SigninRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ProfileUpdate describes a partial identity mutation. Empty fields are
// left unchanged; a non-empty Password is re-hashed before storage.
type ProfileUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AvailabilityRequest asks whether a username and/or email are still free.
type AvailabilityRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Availability reports taken fields. An empty message means the value is
// free to use.
type Availability struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// RenameFileRequest carries the new display label for a shared file.
type RenameFileRequest struct {
	Filename string `json:"filename"`
}
