package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/me/roadwatch/pkg/model"
)

// LoginResult is the credential set returned by a successful login.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// UnmarshalJSON accepts userId as either a JSON string or a number; the
// backend is not consistent about id types across auth endpoints.
func (r *LoginResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Token  string          `json:"token"`
		UserID json.RawMessage `json:"userId"`
		Role   string          `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Token = raw.Token
	r.UserID = principalID(raw.UserID)
	r.Role = raw.Role
	return nil
}

// principalID renders a string-or-number JSON id as a string.
func principalID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// Complete reports whether the backend returned a full credential set.
func (r LoginResult) Complete() bool {
	return r.Token != "" && r.UserID != "" && r.Role != ""
}

// Login exchanges email and password for a credential set.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var result LoginResult
	if err := c.do(ctx, "POST", "/login", req, &result, false); err != nil {
		return LoginResult{}, wrapErr("login", err)
	}
	return result, nil
}

// RegisterParams describe a new account. LocationArea carries the id of a
// previously created geographical area and stays nil for regular users.
type RegisterParams struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	LocationArea *int64 `json:"location_area"`
}

// RegisterResult is the backend's answer to a registration. Token and Role
// may be empty, in which case the caller must log in separately.
type RegisterResult struct {
	ID      int64  `json:"id"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Complete reports whether the registration response allows an immediate
// login without a separate /login round trip.
func (r RegisterResult) Complete() bool {
	return r.ID != 0 && r.Token != "" && r.Role != ""
}

// Session converts a complete registration result into a session.
func (r RegisterResult) Session() model.Session {
	return model.Session{
		Token:  r.Token,
		UserID: fmt.Sprintf("%d", r.ID),
		Role:   model.Role(r.Role),
	}
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, params RegisterParams) (RegisterResult, error) {
	var result RegisterResult
	if err := c.do(ctx, "POST", "/register", params, &result, false); err != nil {
		return RegisterResult{}, wrapErr("register", err)
	}
	return result, nil
}

// AreaParams describe a geographical area for an admin. Radius is in
// kilometers.
type AreaParams struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

// CreateArea registers a geographical area and returns its id. Admin signup
// calls this before /register so the new account can reference the area.
func (c *Client) CreateArea(ctx context.Context, params AreaParams) (int64, error) {
	var result struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, "POST", "/geographical-areas", params, &result, false); err != nil {
		return 0, wrapErr("create area", err)
	}
	return result.ID, nil
}
