package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDC creates a Verifier for ID tokens issued by cfg.Issuer to
// cfg.ClientID. With JWKSURL set the key set is fetched directly; otherwise
// the issuer's discovery document is read, which requires network access.
// ctx bounds key fetching and should live as long as the verifier.
func NewOIDC(ctx context.Context, cfg *Config) (Verifier, error) {
	oc := &oidc.Config{ClientID: cfg.ClientID}

	if cfg.JWKSURL != "" {
		keySet := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
		return &oidcVerifier{verifier: oidc.NewVerifier(cfg.Issuer, keySet, oc)}, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider %s: %w", cfg.Issuer, err)
	}

	return &oidcVerifier{verifier: provider.Verifier(oc)}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (string, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return token.Subject, nil
}
