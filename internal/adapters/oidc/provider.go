package oidc

// Package oidc implements the code exchanger against Google's OAuth/OIDC
// endpoints using go-oidc for ID token verification.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	"github.com/clario/auth-api/internal/ports"
)

// DefaultIssuerURL is Google's OIDC issuer.
const DefaultIssuerURL = "https://accounts.google.com"

// Provider implements ports.CodeExchanger using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	// go-oidc provider and verifier
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string        // Optional, defaults to DefaultIssuerURL
	Timeout      time.Duration // Optional, bounds the outbound exchange call; defaults to 10s
	HTTPClient   *http.Client  // Optional, defaults to a client with Timeout
}

// NewProvider creates a new OIDC provider. It performs a single discovery
// fetch against the issuer at construction time.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}

	issuer := config.IssuerURL
	if issuer == "" {
		issuer = DefaultIssuerURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	p := &Provider{httpClient: httpClient}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Exchange trades the authorization code for a verified identity profile.
// The redirect URI is passed through per call (it may be the "postmessage"
// sentinel for popup flows) and must already have passed allow-list
// validation; this adapter does not re-check it.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Profile, error) {
	if in.Code == "" {
		return domainauth.Profile{}, errors.New("authorization code is required")
	}
	if in.RedirectURI == "" {
		return domainauth.Profile{}, errors.New("redirect URI is required")
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("redirect_uri", in.RedirectURI),
	}
	if in.CodeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(in.CodeVerifier))
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code, opts...)
	if err != nil {
		return domainauth.Profile{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := getIDTokenFromToken(token)
	if err != nil {
		return domainauth.Profile{}, err
	}

	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Profile{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Profile{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}

	profile := mapIDTokenClaims(claims)
	if profile.Email == "" {
		return domainauth.Profile{}, errors.New("id_token missing email claim")
	}
	return profile, nil
}

// idTokenClaims represents the subset of Google ID token claims we consume.
type idTokenClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// mapIDTokenClaims maps raw ID token claims into a Profile using precedence rules.
func mapIDTokenClaims(c idTokenClaims) domainauth.Profile {
	name := c.Name
	if name == "" {
		name = joinNonEmpty(c.GivenName, c.FamilyName)
	}
	return domainauth.Profile{
		Subject:       c.Sub,
		Email:         c.Email,
		Name:          name,
		Picture:       c.Picture,
		EmailVerified: c.EmailVerified,
	}
}

// joinNonEmpty joins the non-empty values with a single space.
func joinNonEmpty(vals ...string) string {
	out := ""
	for _, v := range vals {
		if v == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += v
	}
	return out
}

// getIDTokenFromToken extracts the id_token from oauth2.Token. Its absence is
// fatal: without an identity token there is nothing to authenticate.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing identity token")
	}
	return s, nil
}
