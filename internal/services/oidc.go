package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type Provider string

const (
	ProviderGoogle Provider = "google"
)

// IdentityClaims is what an identity provider asserts about the caller
// after a successful code exchange.
type IdentityClaims struct {
	Provider      Provider
	Subject       string
	Email         string
	EmailVerified bool
}

// OAuthProvider abstracts the OIDC authorization-code dance so handlers can
// be tested without a live issuer.
type OAuthProvider interface {
	Provider() Provider
	AuthCodeURL(state, nonce string) string
	ExchangeAndVerify(ctx context.Context, code, nonce string) (IdentityClaims, error)
}

type OIDCProviderConfig struct {
	Provider     Provider
	ClientID     string
	ClientSecret string
	RedirectURL  string
	IssuerURL    string
	Scopes       []string
}

func (cfg OIDCProviderConfig) validate() error {
	if cfg.Provider == "" {
		return errors.New("provider is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return errors.New("client id and secret are required")
	}
	if strings.TrimSpace(cfg.RedirectURL) == "" || strings.TrimSpace(cfg.IssuerURL) == "" {
		return errors.New("redirect url and issuer url are required")
	}
	return nil
}

type OIDCProvider struct {
	name      Provider
	verifier  *oidc.IDTokenVerifier
	oauth2Cfg oauth2.Config
}

func NewOIDCProvider(ctx context.Context, cfg OIDCProviderConfig) (*OIDCProvider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	discovered, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discovering oidc provider: %w", err)
	}

	return &OIDCProvider{
		name:     cfg.Provider,
		verifier: discovered.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2Cfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     discovered.Endpoint(),
			Scopes:       cfg.Scopes,
		},
	}, nil
}

func (p *OIDCProvider) Provider() Provider {
	return p.name
}

func (p *OIDCProvider) AuthCodeURL(state, nonce string) string {
	return p.oauth2Cfg.AuthCodeURL(state, oidc.Nonce(nonce))
}

func (p *OIDCProvider) ExchangeAndVerify(ctx context.Context, code, nonce string) (IdentityClaims, error) {
	token, err := p.oauth2Cfg.Exchange(ctx, code)
	if err != nil {
		return IdentityClaims{}, fmt.Errorf("exchanging oauth code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return IdentityClaims{}, errors.New("missing id_token in oauth response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return IdentityClaims{}, fmt.Errorf("verifying id token: %w", err)
	}
	if idToken.Nonce != nonce {
		return IdentityClaims{}, errors.New("nonce mismatch")
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return IdentityClaims{}, fmt.Errorf("parsing id token claims: %w", err)
	}

	return IdentityClaims{
		Provider:      p.name,
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}
