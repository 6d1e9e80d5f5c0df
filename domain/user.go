package domain

import "time"

// User is the identity-provider record as seen by the chat core: a
// stable id plus the display identity shown to the counterpart. The
// core never touches credentials; those stay in the repository layer.
type User struct {
	ID        string
	Email     string
	Username  string
	CreatedAt time.Time
}
