package adapter

import "errors"

var (
	ErrUploadFailed = errors.New("blob upload failed")
)
