package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// Verifier admits requests carrying a valid credential in the Authorization header.
type Verifier struct {
	tokens *TokenManager
}

// NewVerifier constructs the verifier stage.
func NewVerifier(tokens *TokenManager) *Verifier {
	return &Verifier{tokens: tokens}
}

// Name identifies the stage in metrics.
func (v *Verifier) Name() string {
	return "verifier"
}

// Admit verifies the request's Authorization header.
func (v *Verifier) Admit(c *fiber.Ctx) Admission {
	return v.Verify(c.Get(fiber.HeaderAuthorization))
}

// Verify checks a raw "<scheme> <token>" header value. A missing header is
// unauthenticated; anything present but unusable is forbidden.
func (v *Verifier) Verify(header string) Admission {
	if header == "" {
		return Reject(apperrors.NewUnauthorized(msgUnauthorized))
	}

	_, token, found := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return Reject(apperrors.NewForbidden(msgForbidden))
	}

	claims, err := v.tokens.ParseToken(token)
	if err != nil {
		return Reject(apperrors.NewForbidden(msgForbidden))
	}
	return Admit(Identity{Email: claims.Email})
}
