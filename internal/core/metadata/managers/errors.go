package managers

import "errors"

var (
	ErrEmptyHandle     = errors.New("template handle is empty")
	ErrNotFound        = errors.New("template not found")
	ErrHandleLocked    = errors.New("template handle is locked")
	ErrInvalidTemplate = errors.New("template failed validation")
	ErrInvalidDocument = errors.New("invalid JSON document")
	ErrUnknownClass    = errors.New("unknown template class")

	// ErrMissingStageInstance is returned for a scene instance other than
	// the dataset default that names no stage.
	ErrMissingStageInstance = errors.New("scene instance has no stage_instance")
)
