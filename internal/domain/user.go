package domain

import "encoding/json"

// User is the session record returned by the remote login endpoint.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// UnmarshalJSON accepts the older login payload, which named the bearer
// token "token" instead of "accessToken".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.AccessToken == "" {
		u.AccessToken = aux.Token
	}
	return nil
}

// Public returns a copy without credentials, for API responses.
func (u User) Public() User {
	u.AccessToken = ""
	u.RefreshToken = ""
	return u
}
