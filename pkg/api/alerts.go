package api

import (
	"context"
	"fmt"

	"github.com/me/roadwatch/pkg/model"
)

// AdminAlerts fetches the full alert collection for the authenticated admin.
// The result is returned in backend order; callers sort as needed.
func (c *Client) AdminAlerts(ctx context.Context) ([]model.Alert, error) {
	var envelope struct {
		Alerts []model.Alert `json:"alerts"`
	}
	if err := c.do(ctx, "GET", "/admin-alerts", nil, &envelope, true); err != nil {
		return nil, wrapErr("list alerts", err)
	}
	return envelope.Alerts, nil
}

// MarkAlertRead flips a single alert's status to Read on the server.
func (c *Client) MarkAlertRead(ctx context.Context, alertID int64) error {
	req := struct {
		AlertStatus string `json:"alert_status"`
	}{AlertStatus: model.AlertStatusRead}

	path := fmt.Sprintf("/alerts/%d", alertID)
	if err := c.do(ctx, "PATCH", path, req, nil, true); err != nil {
		return wrapErr("mark alert read", err)
	}
	return nil
}

// AlertLocations fetches the reduced alert shapes used as map markers.
func (c *Client) AlertLocations(ctx context.Context) ([]model.AlertLocation, error) {
	var envelope struct {
		Alerts []model.AlertLocation `json:"alerts"`
	}
	if err := c.do(ctx, "GET", "/admin-alerts-get-locations", nil, &envelope, true); err != nil {
		return nil, wrapErr("alert locations", err)
	}
	return envelope.Alerts, nil
}
