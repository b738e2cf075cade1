package model

// Session is the record of the currently authenticated principal, or its
// absence. Token, UserID, and Role are set and cleared together: a session is
// either fully authenticated or fully anonymous, never in between.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// IsAuthenticated reports whether the session carries a full credential set.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.UserID != "" && s.Role != ""
}

// IsAdmin reports whether the session is authenticated with the admin role.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Role.IsAdmin()
}

// Anonymous returns the empty session.
func Anonymous() Session {
	return Session{}
}
