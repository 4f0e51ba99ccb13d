package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// StorageTimeFormat is the UTC layout persisted in TEXT columns; it sorts chronologically
	StorageTimeFormat = "2006-01-02T15:04:05Z"
)
