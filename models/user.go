package models

import "time"

// User is a front-desk or admin account.
type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"-" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty" bson:"created_at,omitempty"`
}

// SessionEvent is the payload broadcast to dashboard subscribers whenever a
// session document changes.
type SessionEvent struct {
	Action  string   `json:"action"` // created, updated, finished
	Session *Session `json:"session"`
}
