package model

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies how dangerous a reported hazard is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity normalizes a severity string. Unknown values fall back to low,
// matching how the map surface treats them.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Color returns the map marker color for the severity:
// high is red, medium is orange, everything else green.
func (s Severity) Color() string {
	switch Severity(strings.ToLower(string(s))) {
	case SeverityHigh:
		return "red"
	case SeverityMedium:
		return "orange"
	default:
		return "green"
	}
}

// Report is a user-submitted hazard record as returned by the backend.
type Report struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ImageURL      string    `json:"image_url"`
	Description   string    `json:"description"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	SeverityLevel string    `json:"severity_level"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Severity returns the parsed severity level of the report.
func (r Report) Severity() Severity {
	return ParseSeverity(r.SeverityLevel)
}

// MapsURL builds a Google Maps link for a coordinate pair, used by the
// "open location" actions in listings.
func MapsURL(latitude, longitude float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", latitude, longitude)
}
