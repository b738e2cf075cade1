package api

import (
	"context"

	"github.com/me/roadwatch/pkg/model"
)

// ReportSubmission is the payload for a new hazard report.
type ReportSubmission struct {
	UserID        string  `json:"user_id"`
	ImageURL      string  `json:"image_url"`
	Description   string  `json:"description"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	SeverityLevel string  `json:"severity_level"`
}

// SubmitReport files a new report on behalf of the authenticated user.
func (c *Client) SubmitReport(ctx context.Context, sub ReportSubmission) error {
	if err := c.do(ctx, "POST", "/reports", sub, nil, true); err != nil {
		return wrapErr("submit report", err)
	}
	return nil
}

// MyReports lists the authenticated user's own reports.
func (c *Client) MyReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	if err := c.do(ctx, "GET", "/my-reports", nil, &reports, true); err != nil {
		return nil, wrapErr("list reports", err)
	}
	return reports, nil
}

// UserLocation fetches the geographical area assigned to a user. The backend
// serves this endpoint without authentication.
func (c *Client) UserLocation(ctx context.Context, userID string) (model.AreaLocation, error) {
	var loc model.AreaLocation
	if err := c.do(ctx, "GET", "/user/"+userID+"/location", nil, &loc, false); err != nil {
		return model.AreaLocation{}, wrapErr("user location", err)
	}
	return loc, nil
}
