package rooms

import "strings"

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateRoom validates a room before create or update.
func ValidateRoom(room *Room) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(room.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if room.Capacity <= 0 {
		errors = append(errors, ValidationError{
			Field:   "capacity",
			Message: "capacity must be positive",
		})
	}

	if room.HourlyRate < 0 {
		errors = append(errors, ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate cannot be negative",
		})
	}

	if room.Status != "" && !ValidStatus(room.Status) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "status must be one of: available, occupied, reserved, cleaning",
		})
	}

	return errors
}
