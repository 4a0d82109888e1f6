package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"zillowlike.app/api/core/config"
)

// Identity is what the identity provider tells us about a person who just
// signed in.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

// Authenticator is the AuthKit side of login.
type Authenticator interface {
	AuthorizationURL(state string) (string, error)
	Authenticate(ctx context.Context, code string) (Identity, error)
}

type workosAuthenticator struct {
	clientID    string
	redirectURI string
}

func NewWorkOSAuthenticator(cfg config.WorkOSConfig) Authenticator {
	usermanagement.SetAPIKey(cfg.APIKey)
	return &workosAuthenticator{clientID: cfg.ClientID, redirectURI: cfg.RedirectURI}
}

func (a *workosAuthenticator) AuthorizationURL(state string) (string, error) {
	u, err := usermanagement.GetAuthorizationURL(usermanagement.GetAuthorizationURLOpts{
		ClientID:    a.clientID,
		RedirectURI: a.redirectURI,
		State:       state,
		Provider:    "authkit",
	})
	if err != nil {
		return "", fmt.Errorf("workos authorization url: %w", err)
	}
	return u.String(), nil
}

func (a *workosAuthenticator) Authenticate(ctx context.Context, code string) (Identity, error) {
	resp, err := usermanagement.AuthenticateWithCode(ctx, usermanagement.AuthenticateWithCodeOpts{
		ClientID: a.clientID,
		Code:     code,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("workos authenticate: %w", err)
	}
	return IdentityFromWorkOS(resp.User), nil
}

// IdentityFromWorkOS lowercases the email and joins the name parts, falling
// back to the email when the account has no name.
func IdentityFromWorkOS(u usermanagement.User) Identity {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.Email
	}
	return Identity{
		ExternalID: u.ID,
		Email:      strings.ToLower(strings.TrimSpace(u.Email)),
		Name:       name,
		AvatarURL:  u.ProfilePictureURL,
	}
}
