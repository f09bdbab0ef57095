package models

// DarkMode is stored as "enabled" or "disabled"
type DarkMode string

const (
	DarkModeEnabled  DarkMode = "enabled"
	DarkModeDisabled DarkMode = "disabled"
)

// Valid reports whether the value is one of the two modes
func (d DarkMode) Valid() bool {
	return d == DarkModeEnabled || d == DarkModeDisabled
}

// Toggle flips the mode
func (d DarkMode) Toggle() DarkMode {
	if d == DarkModeEnabled {
		return DarkModeDisabled
	}
	return DarkModeEnabled
}
