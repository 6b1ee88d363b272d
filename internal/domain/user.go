package domain

// UserContext is the identity asserted by the upstream gateway. The
// gateway has already authenticated the user; this service only checks
// ownership against it.
type UserContext struct {
	UserID    string
	UserEmail string
	UserRole  string
}

// UserName is the display name recorded in activity logs.
func (u UserContext) UserName() string {
	return u.UserEmail
}
