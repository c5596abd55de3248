package services

import "errors"

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrValidation         = errors.New("validation failed")
	ErrUnsupportedMedia   = errors.New("invalid file type, only images and videos are allowed")
	ErrUploadFailed       = errors.New("error uploading file")
)
