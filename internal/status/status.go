// Package status defines the lifecycle shared by staged files and the library
// entities queued for metadata scanning.
package status

import (
	"path/filepath"
	"strings"
)

// Status is the processing state of a staged file or a queued entity.
type Status string

const (
	// New means the record was just discovered and has never been processed.
	New Status = "NEW"

	// Updated means the record changed since it was last processed.
	Updated Status = "UPDATED"

	// Process means the record has been claimed and is being worked on.
	Process Status = "PROCESS"

	// Done means processing finished successfully.
	Done Status = "DONE"

	// Error means processing failed. Only an external reset makes it eligible again.
	Error Status = "ERROR"

	// Deleted means the underlying file disappeared.
	Deleted Status = "DELETED"
)

// All lists every defined status.
var All = []Status{New, Updated, Process, Done, Error, Deleted}

// Parse converts a stored or user-supplied value into a Status.
// Unknown or empty values normalize to New.
func Parse(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case New:
		return New
	case Updated:
		return Updated
	case Process:
		return Process
	case Done:
		return Done
	case Error:
		return Error
	case Deleted:
		return Deleted
	default:
		return New
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Eligible reports whether a record in this status may be claimed.
func (s Status) Eligible() bool {
	return s == New || s == Updated
}

// IsTerminal reports whether the status ends a pipeline pass.
func (s Status) IsTerminal() bool {
	return s == Done || s == Deleted
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	if to == Deleted {
		return !from.IsTerminal()
	}

	switch from {
	case New:
		return to == Updated || to == Process
	case Updated:
		return to == Process
	case Process:
		return to == Done || to == Error
	case Error:
		// ERROR only leaves through an explicit reset.
		return to == New || to == Updated
	case Done:
		return to == Updated
	default:
		return false
	}
}

// MediaType classifies a staged file.
type MediaType string

const (
	MediaVideo    MediaType = "VIDEO"    // movie or episode container
	MediaImage    MediaType = "IMAGE"    // poster, fanart or other artwork
	MediaNFO      MediaType = "NFO"      // Kodi-style metadata sidecar
	MediaSubtitle MediaType = "SUBTITLE" // external subtitle track
)

// ParseMediaType converts a stored value into a MediaType.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(strings.ToUpper(strings.TrimSpace(s))) {
	case MediaVideo:
		return MediaVideo, true
	case MediaImage:
		return MediaImage, true
	case MediaNFO:
		return MediaNFO, true
	case MediaSubtitle:
		return MediaSubtitle, true
	}
	return "", false
}

// String returns the string representation of the media type.
func (m MediaType) String() string {
	return string(m)
}

var mediaTypesByExt = map[string]MediaType{
	".mkv":  MediaVideo,
	".mp4":  MediaVideo,
	".avi":  MediaVideo,
	".m4v":  MediaVideo,
	".ts":   MediaVideo,
	".wmv":  MediaVideo,
	".mov":  MediaVideo,
	".webm": MediaVideo,
	".mpg":  MediaVideo,
	".mpeg": MediaVideo,
	".m2ts": MediaVideo,
	".iso":  MediaVideo,
	".jpg":  MediaImage,
	".jpeg": MediaImage,
	".png":  MediaImage,
	".webp": MediaImage,
	".nfo":  MediaNFO,
	".srt":  MediaSubtitle,
	".ass":  MediaSubtitle,
	".ssa":  MediaSubtitle,
	".sub":  MediaSubtitle,
	".idx":  MediaSubtitle,
	".vtt":  MediaSubtitle,
}

// MediaTypeForPath classifies a file by its extension.
func MediaTypeForPath(path string) (MediaType, bool) {
	mt, ok := mediaTypesByExt[strings.ToLower(filepath.Ext(path))]
	return mt, ok
}
