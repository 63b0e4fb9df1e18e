package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Address is a postal address stored on a user profile.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zipCode"`
	Country string `json:"country" bson:"country"`
}

// Preferences holds a user's notification opt-ins.
type Preferences struct {
	EmailNotifications bool `json:"emailNotifications" bson:"emailNotifications"`
	OrderUpdates       bool `json:"orderUpdates" bson:"orderUpdates"`
}

// DefaultPreferences returns the opt-ins every new account starts with.
func DefaultPreferences() Preferences {
	return Preferences{EmailNotifications: true, OrderUpdates: true}
}

// User is a registered account. PasswordHash never leaves the process.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	IsActive     bool        `json:"isActive"`
	LastLogin    time.Time   `json:"lastLogin"`
	Address      *Address    `json:"address,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address; all lookups and
// uniqueness checks use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserUpdate is an admin's partial edit of an account. Nil fields are left
// unchanged.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// Apply copies the set fields of u onto user.
func (u UserUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		user.Email = NormalizeEmail(*u.Email)
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
	if u.IsActive != nil {
		user.IsActive = *u.IsActive
	}
}

// ProfileUpdate is the owning user's edit of their own profile.
type ProfileUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Address     *Address     `json:"address,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// Apply copies the set fields of p onto user.
func (p ProfileUpdate) Apply(user *User) {
	if p.Name != nil {
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		user.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		addr := *p.Address
		user.Address = &addr
	}
	if p.Preferences != nil {
		user.Preferences = *p.Preferences
	}
}

// UserStats is an account enriched with its order history totals, as listed
// in the back office.
type UserStats struct {
	*User
	OrderCount int             `json:"orderCount"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}
