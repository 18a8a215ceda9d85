package auth

import (
	"net/url"

	"golang.org/x/oauth2/clientcredentials"
)

// Conf holds OAuth2 client credentials for token protected upstream pages.
type Conf struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether credentials were configured.
func (c Conf) Enabled() bool {
	return c.ClientID != "" && c.AuthURL != ""
}

func (c *Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.AuthURL,
		Scopes:       c.Scopes,
	}
}

// FormLogin is the email and password pair posted to a cabinet login form.
type FormLogin struct {
	Email    string
	Password string
}

// Valid reports whether both fields are set.
func (f FormLogin) Valid() bool { return f.Email != "" && f.Password != "" }

// Values encodes the pair as the login form expects it.
func (f FormLogin) Values() url.Values {
	return url.Values{"email": {f.Email}, "password": {f.Password}}
}
