package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasRole(t *testing.T) {
	u := &User{Email: "a@x.com"}
	require.True(t, u.HasRole(RoleUser))
	require.False(t, u.HasRole(RoleAdmin))

	u.IsAdmin = true
	require.True(t, u.HasRole(RoleAdmin))
	require.False(t, u.HasRole(Role("superuser")))

	var nilUser *User
	require.False(t, nilUser.HasRole(RoleUser))
}

func TestUserJSONNeverCarriesHash(t *testing.T) {
	u := &User{Email: "a@x.com", FirstName: "A", LastName: "X", PasswordHash: "$2a$10$secret"}

	for _, v := range []interface{}{u, u.Public(), u.Profile()} {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		require.NotContains(t, string(b), "secret")
		require.NotContains(t, string(b), "password")
	}
}
