package image

import "errors"

var (
	ErrNoFile        = errors.New("no file provided")
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageNotFound = errors.New("image not found")
	ErrUpstream      = errors.New("object storage failure")
)
