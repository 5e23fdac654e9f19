package enums

import "fmt"

// MediaStatus tracks whether an uploaded object has been referenced by a
// record yet. Pending rows older than the retention window are reaped by
// the worker together with their objects.
type MediaStatus string

const (
	MediaStatusPending  MediaStatus = "pending"
	MediaStatusAttached MediaStatus = "attached"
)

var validMediaStatuses = []MediaStatus{MediaStatusPending, MediaStatusAttached}

// String implements fmt.Stringer.
func (s MediaStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MediaStatus.
func (s MediaStatus) IsValid() bool {
	for _, candidate := range validMediaStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMediaStatus converts raw input into a MediaStatus.
func ParseMediaStatus(value string) (MediaStatus, error) {
	for _, candidate := range validMediaStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media status %q", value)
}
