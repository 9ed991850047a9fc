package domain

// Session is the read-only descriptor of the authenticated user, supplied
// by the auth middleware. This core only uses Email, to stamp ownership on
// newly created bills.
type Session struct {
	Email string `json:"email"`
	Type  string `json:"type"` // "Employee" or "Admin"
}
