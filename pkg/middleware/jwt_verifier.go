package middleware

import (
	"context"
	"encoding/json"

	"github.com/jokeoftheday/jotd/internal/tokens"
)

// JWTVerifier verifies static-secret admin JWTs. It is the fallback when no
// OIDC issuer is configured.
type JWTVerifier struct {
	Secret string
}

type jwtToken struct {
	claims map[string]interface{}
}

func (t *jwtToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (j *JWTVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	claims, err := tokens.VerifyAdminToken(j.Secret, raw)
	if err != nil {
		return nil, err
	}
	return &jwtToken{claims: claims}, nil
}
