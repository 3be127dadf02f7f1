package version

// Meta pairs a Version with an arbitrary payload: an activity or page
// handle for overlays, a layout reference for slides, a look-and-feel for
// rings.
type Meta[T any] struct {
	Version
	Data T
}

// NewMeta builds a Meta identity from a name, payload and up to three
// numeric version parts.
func NewMeta[T any](name string, data T, major int, rest ...int) (Meta[T], error) {
	v, err := New(name, major, rest...)
	if err != nil {
		return Meta[T]{}, err
	}
	return Meta[T]{Version: v, Data: data}, nil
}

// ParseMeta builds a Meta identity from a name, payload and dotted version
// string.
func ParseMeta[T any](name string, data T, s string) (Meta[T], error) {
	v, err := Parse(name, s)
	if err != nil {
		return Meta[T]{}, err
	}
	return Meta[T]{Version: v, Data: data}, nil
}

// MetaEqual reports whether two Meta identities carry the same name, the
// same triple and equal payloads.
func MetaEqual[T comparable](a, b Meta[T]) bool {
	return a.Version.Equal(b.Version) && a.Data == b.Data
}
