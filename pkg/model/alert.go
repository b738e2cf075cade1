package model

import "sort"

// Alert statuses as used by the backend.
const (
	AlertStatusUnread = "Unread"
	AlertStatusRead   = "Read"
)

// Alert is an administrator-facing notification derived from a report. Its
// read/unread status is independent of the underlying report's status.
type Alert struct {
	AlertID       int64   `json:"alert_id"`
	ReportID      int64   `json:"report_id"`
	AlertStatus   string  `json:"alert_status"`
	AlertTime     string  `json:"alert_timestamp"`
	ImageURL      string  `json:"image_url"`
	Description   string  `json:"description"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	SeverityLevel string  `json:"severity_level"`
	ReportStatus  string  `json:"report_status"`
}

// IsUnread reports whether the alert still needs attention.
func (a Alert) IsUnread() bool {
	return a.AlertStatus == AlertStatusUnread
}

// Severity returns the parsed severity level of the alert.
func (a Alert) Severity() Severity {
	return ParseSeverity(a.SeverityLevel)
}

// SortAlerts orders unread alerts before read ones, preserving the relative
// order within each group. There is no further tie-break.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].IsUnread() && !alerts[j].IsUnread()
	})
}

// AlertLocation is the reduced alert shape used for map markers.
type AlertLocation struct {
	AlertID       int64   `json:"alert_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Description   string  `json:"description"`
	SeverityLevel string  `json:"severity_level"`
}

// AreaLocation is an admin's own geographical area: a circle on the map.
// Radius is in kilometers.
type AreaLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}
