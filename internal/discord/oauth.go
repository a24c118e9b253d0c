package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	AuthorizeURL = "https://discord.com/oauth2/authorize"
	TokenURL     = "https://discord.com/api/oauth2/token"
)

var Scopes = []string{"identify", "guilds"}

// OAuth performs the authorization-code half of Discord's OAuth2 flow.
type OAuth struct {
	config *oauth2.Config
	client *http.Client
}

func NewOAuth(clientID, clientSecret, redirectURL string, timeout time.Duration) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   AuthorizeURL,
				TokenURL:  TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: &http.Client{Timeout: timeout},
	}
}

// WithTokenURL points the exchange at another token endpoint.
func (o *OAuth) WithTokenURL(tokenURL string) *OAuth {
	cfg := *o.config
	cfg.Endpoint.TokenURL = tokenURL
	return &OAuth{config: &cfg, client: o.client}
}

// AuthCodeURL is the authorize redirect target for state.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// Exchange trades code for an access token.
func (o *OAuth) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.client)
	tok, err := o.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange oauth code: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("exchange oauth code: empty access token")
	}
	return tok.AccessToken, nil
}
