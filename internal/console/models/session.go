package models

import "time"

// Role of the signed in staff member
type Role string

// Roles known to the console
const (
	RoleNone      Role = ""
	RoleDoctor    Role = "doctor"
	RoleAssistant Role = "assistant"
)

// Credentials entered on the login screen. Doctors sign in with an email,
// assistants with a phone number.
type Credentials struct {
	Role       Role
	Identifier string
	Password   string
}

// User is the resource returned by a successful login
type User struct {
	ID    int    `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email" mapstructure:"email"`
	Phone string `json:"phone" mapstructure:"phone"`
	Token string `json:"token" mapstructure:"token"`

	Raw map[string]interface{} `json:"-" mapstructure:"-"`
}

// DisplayName picks the most readable identifier of the user
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.Phone
	}
}

// Session is the signed in state kept for the lifetime of the process
type Session struct {
	User      User
	Role      Role
	StartedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session token carried an expiry that has passed
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Route is a screen address inside the console
type Route string

// Routes of the console
const (
	RouteWelcome       Route = "/"
	RouteLogin         Route = "/login"
	RouteApp           Route = "/app"
	RouteUsers         Route = "/app/users"
	RouteLabTests      Route = "/app/labtests"
	RouteUnions        Route = "/app/unions"
	RouteAds           Route = "/app/ads"
	RouteNotifications Route = "/app/notifications"
	RouteAllLabTests   Route = "/app/alllabtests"
)
