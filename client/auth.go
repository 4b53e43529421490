package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/contract-tests/items-contract-tests/servicedef"

	"golang.org/x/oauth2"
)

// Credentials are the fields of the service's password login form.
type Credentials struct {
	Username     string
	Password     string
	Scope        string
	ClientID     string
	ClientSecret string
}

// Form returns the credentials as a login form. Empty optional fields are still sent, as some
// services expect every field of the form to be present.
func (c Credentials) Form() url.Values {
	return url.Values{
		"grant_type":    {"password"},
		"username":      {c.Username},
		"password":      {c.Password},
		"scope":         {c.Scope},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
	}
}

// Authenticate logs in once with the password form and returns a copy of api that sends the
// resulting access token as a bearer token on every request. Any status other than 200, or a body
// without an access token, is an error. The token is never refreshed.
func Authenticate(ctx context.Context, api *Client, creds Credentials) (*Client, error) {
	resp, err := api.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login was rejected with HTTP %d: %s", resp.StatusCode, truncate(resp.Body))
	}
	var token servicedef.TokenResponse
	if err := resp.JSON(&token); err != nil {
		return nil, fmt.Errorf("login response was not a token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("login response had no access_token")
	}
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	api.logger.Printf("logged in as %q, token type %q", creds.Username, tokenType)

	return api.withTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   tokenType,
	})), nil
}
