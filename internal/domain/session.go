package domain

// SessionClaims is the identity carried by a session token. Authorization
// decisions are always derived from Role at request time.
type SessionClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// ClaimsFor builds the session claims of a user.
func ClaimsFor(u *User) SessionClaims {
	return SessionClaims{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// SessionUpdate replaces the display fields of existing claims without
// re-authenticating. Empty fields are left unchanged.
type SessionUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Refresh returns c with the fields of u applied.
func (c SessionClaims) Refresh(u SessionUpdate) SessionClaims {
	if u.Name != "" {
		c.Name = u.Name
	}
	if u.Email != "" {
		c.Email = NormalizeEmail(u.Email)
	}
	return c
}
