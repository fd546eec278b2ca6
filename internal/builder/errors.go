package builder

import "errors"

// Failure taxonomy for session actions. All are reported to the caller and
// never corrupt the canonical document.
var (
	// ErrNotFound is returned when a fetch or share lookup matches nothing.
	ErrNotFound = errors.New("profile not found")
	// ErrTransport is returned when the profile store cannot be reached or
	// rejects a request. No retry is attempted.
	ErrTransport = errors.New("profile store request failed")
	// ErrClipboard is returned when the share link could not be copied. The
	// share snapshot is kept regardless.
	ErrClipboard = errors.New("clipboard write failed")
	// ErrRenderTargetMissing is returned when the preview region is not
	// available at export time, before any layout mutation.
	ErrRenderTargetMissing = errors.New("resume preview not found")
)
