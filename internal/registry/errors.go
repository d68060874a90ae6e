package registry

import "errors"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyID          = errors.New("document id is empty")
)
