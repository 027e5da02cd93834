package oauth

import (
	"context"
	"errors"
	"strings"

	"github.com/yojanasetu/apiserver/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// Identity is the subset of a verified Google ID token the app consumes.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates Google ID tokens against the configured
// audience and drives the browser redirect flow.
type GoogleVerifier struct {
	audience string
	oauth    *oauth2.Config
}

func NewGoogleVerifier(cfg config.AuthConfig) (*GoogleVerifier, error) {
	if strings.TrimSpace(cfg.GoogleClientID) == "" {
		return nil, errors.New("google client id is required")
	}

	return &GoogleVerifier{
		audience: cfg.GoogleClientID,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// AuthCodeURL returns the consent-screen URL for the redirect flow.
func (g *GoogleVerifier) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades a callback authorization code for a verified identity.
func (g *GoogleVerifier) Exchange(ctx context.Context, code string) (Identity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return Identity{}, err
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return Identity{}, errors.New("exchange response missing id_token")
	}
	return g.Verify(ctx, raw)
}

// Verify checks the token's signature and audience and extracts the
// identity claims. Any verification failure is a rejection.
func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (Identity, error) {
	payload, err := idtoken.Validate(ctx, rawToken, g.audience)
	if err != nil {
		return Identity{}, err
	}

	identity := Identity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = strings.ToLower(strings.TrimSpace(email))
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		identity.Picture = picture
	}

	if identity.Email == "" {
		return Identity{}, errors.New("id token missing email claim")
	}
	return identity, nil
}
