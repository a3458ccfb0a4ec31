package library

import (
	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
	"github.com/zeusync/simmeta/internal/core/metadata/managers"
)

// Family is a type-erased view of one manager, for callers that only
// inspect templates.
type Family interface {
	Name() string
	Suffix() string
	Handles(substr string) []string
	NumObjects() int
	Lookup(handle string) (attributes.Attributes, bool)
	LookupID(handle string) (int, bool)
	IsLocked(handle string) bool
}

type familyView[T managers.Template[T]] struct {
	*managers.Manager[T]
}

func (f familyView[T]) Lookup(handle string) (attributes.Attributes, bool) {
	obj, ok := f.GetObjectByHandle(handle)
	if !ok {
		return nil, false
	}
	return obj, true
}

func (f familyView[T]) LookupID(handle string) (int, bool) {
	return f.GetObjectIDByHandle(handle)
}
