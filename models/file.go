package models

import "time"

// FileEntry is one shared file inside an owner's file index.
type FileEntry struct {
	// ImageID is the unique identifier of the entry, assigned at upload.
	ImageID string `json:"image_id" bson:"image_id"`

	// FilePath is the public URL of the blob on the storage provider.
	FilePath string `json:"url" bson:"file_path"`

	// FileName is the user-visible display label.
	FileName string `json:"filename" bson:"file_name"`

	// UploadedAt is the time the blob was accepted by the provider.
	UploadedAt time.Time `json:"date" bson:"uploaded_at"`
}

// FileIndex holds all shared files of a single identity. It is keyed by the
// identity's current email; when the email changes the index is re-keyed as
// part of the same profile-update operation.
type FileIndex struct {
	// OwnerEmail is the current email of the owning identity, lowercased.
	OwnerEmail string `json:"email" bson:"email"`

	// Entries is the ordered collection of shared files.
	Entries []FileEntry `json:"images" bson:"images"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TableName returns the name of the database table (or collection)
// associated with the FileIndex model.
func (f FileIndex) TableName() string {
	return "file_indexes"
}

// UploadFile is one inbound file extracted from a multipart request,
// fully buffered before it is handed to the blob-store adapter.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadedBlob is the blob-store provider's answer for a single upload.
type UploadedBlob struct {
	URL  string `json:"url"`
	ID   string `json:"fileId"`
	Name string `json:"name"`
}

// UploadResult summarises a multi-file upload operation.
type UploadResult struct {
	URLs      []string    `json:"urls"`
	FileCount int         `json:"filecount"`
	Entries   []FileEntry `json:"-"`
}
