package usage

import "screentime-go/internal/model"

// StatusColor returns the palette color for a child status.
// Unrecognised statuses get TextSecondary.
func StatusColor(status model.Status, p Palette) string {
	switch status {
	case model.StatusOK:
		return p.Success
	case model.StatusWarning:
		return p.Warning
	case model.StatusLocked:
		return p.Error
	default:
		return p.TextSecondary
	}
}

// StatusLabel returns the display label for a child status.
// Unrecognised statuses are labelled "Unknown".
func StatusLabel(status model.Status) string {
	switch status {
	case model.StatusOK:
		return "On Track"
	case model.StatusWarning:
		return "Near Limit"
	case model.StatusLocked:
		return "Locked"
	default:
		return "Unknown"
	}
}
