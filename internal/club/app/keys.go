package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"github.com/topcarsvalley/clubd/pkg/idx"
	"github.com/topcarsvalley/clubd/pkg/jwtx"
)

// InitSessionKeys builds the Ed25519 signer and verifier used for session
// tokens.
//
// When CLUB_SIGNING_KEY_FILE is set the key is loaded from that PEM file and
// sessions survive restarts. Otherwise a fresh key is generated on startup
// and every existing session becomes invalid.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.KeySet, jwtx.Signer, jwtx.Verifier, error) {
	var signer jwtx.Signer

	if cfg.SigningKeyFile != "" {
		pemKey, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read signing key file: %w", err)
		}

		s, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load signing key: %w", err)
		}
		signer = s

		logger.Info("session signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}

		s, err := jwtx.NewSignerFromKey(idx.New().String(), priv)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize signer: %w", err)
		}
		signer = s

		logger.Warn("generated ephemeral session signing key, existing sessions are now invalid")
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	verifier := jwtx.NewVerifierEdDSA(keys, cfg.Issuer)
	return keys, signer, verifier, nil
}
