package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalAccessToken(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"username":"emilys","accessToken":"abc","refreshToken":"r"}`), &u))
	assert.Equal(t, "abc", u.AccessToken)
	assert.Equal(t, "r", u.RefreshToken)
	assert.Equal(t, "emilys", u.Username)
}

func TestUser_UnmarshalLegacyToken(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"username":"kminchelle","token":"legacy"}`), &u))
	assert.Equal(t, "legacy", u.AccessToken)
}

func TestUser_AccessTokenWinsOverLegacy(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"accessToken":"new","token":"old"}`), &u))
	assert.Equal(t, "new", u.AccessToken)
}

func TestUser_Public_StripsTokens(t *testing.T) {
	u := User{ID: 1, Username: "emilys", AccessToken: "a", RefreshToken: "r"}
	pub := u.Public()
	assert.Empty(t, pub.AccessToken)
	assert.Empty(t, pub.RefreshToken)
	assert.Equal(t, "a", u.AccessToken, "original must be untouched")
}

func TestUser_Public_OmitsTokenKeys(t *testing.T) {
	data, err := json.Marshal(User{ID: 1, Username: "emilys", AccessToken: "a", RefreshToken: "r"}.Public())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotContains(t, out, "accessToken")
	assert.NotContains(t, out, "refreshToken")
	assert.Equal(t, "emilys", out["username"])
}
