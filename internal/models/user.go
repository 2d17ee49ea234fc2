package models

import "time"

// Role is a capability checked by the authorization guard.
type Role string

const (
	// RoleUser is held by every registered account.
	RoleUser Role = "user"
	// RoleAdmin is held by accounts with is_admin set.
	RoleAdmin Role = "admin"
)

// User is a stored bookstore account. The email is the unique key.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`
	FirstName    string    `bson:"first_name" json:"first_name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	PasswordHash string    `bson:"password" json:"-"`
	IsAdmin      bool      `bson:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(r Role) bool {
	if u == nil {
		return false
	}
	switch r {
	case RoleUser:
		return true
	case RoleAdmin:
		return u.IsAdmin
	}
	return false
}

// PublicView is the registration response shape; it never carries secret material.
type PublicView struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileView is returned by /me.
type ProfileView struct {
	PublicView
	IsAdmin bool `json:"is_admin"`
}

func (u *User) Public() PublicView {
	return PublicView{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

func (u *User) Profile() ProfileView {
	return ProfileView{PublicView: u.Public(), IsAdmin: u.IsAdmin}
}
