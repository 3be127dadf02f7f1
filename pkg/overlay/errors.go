package overlay

import "errors"

var (
	// ErrAlreadyAttached is returned when attaching a slide that is bound
	// to a different overlay; it must be detached first.
	ErrAlreadyAttached = errors.New("overlay: slide is already attached to another overlay")

	// ErrAlreadyDetached is returned when detaching a slide whose content
	// handle is already gone.
	ErrAlreadyDetached = errors.New("overlay: slide is already detached")

	// ErrInflation is returned when a slide's layout cannot be turned into
	// a content handle.
	ErrInflation = errors.New("overlay: slide layout cannot be inflated")

	// ErrInvalidContentRoot is returned when the page exposes no root
	// content region; nothing can be overlaid then.
	ErrInvalidContentRoot = errors.New("overlay: page has no root content region")
)
