package auth

import (
	"context"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-store/internal/domain"
	"github.com/spec-kit/parts-store/internal/repository"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// AdminGate admits verified callers whose user record holds the admin role.
type AdminGate struct {
	users repository.Collection
}

// NewAdminGate constructs the gate over the users collection.
func NewAdminGate(users repository.Collection) *AdminGate {
	return &AdminGate{users: users}
}

// Name identifies the stage in metrics.
func (g *AdminGate) Name() string {
	return "admin"
}

// Admit requires an identity attached by an earlier stage.
func (g *AdminGate) Admit(c *fiber.Ctx) Admission {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return Reject(apperrors.NewUnauthorized(msgUnauthorized))
	}
	return g.Check(c.UserContext(), identity)
}

// Check looks up the identity's user record. It never writes.
func (g *AdminGate) Check(ctx context.Context, identity Identity) Admission {
	user, err := g.users.FindOne(ctx, repository.Filter{domain.FieldEmail: identity.Email})
	if errors.Is(err, repository.ErrNotFound) {
		return Reject(apperrors.NewForbidden(msgForbidden))
	}
	if err != nil {
		return Reject(apperrors.NewUpstreamFailure("document store", err))
	}
	if role, _ := user[domain.FieldRole].(string); role != domain.RoleAdmin {
		return Reject(apperrors.NewForbidden(msgForbidden))
	}
	return Admit(identity)
}

// Claim extracts the identity a request claims to act for.
type Claim func(c *fiber.Ctx) string

// QueryClaim reads the claimed email from a query parameter.
func QueryClaim(key string) Claim {
	return func(c *fiber.Ctx) string {
		return c.Query(key)
	}
}

// ParamClaim reads the claimed email from a route parameter.
func ParamClaim(key string) Claim {
	return func(c *fiber.Ctx) string {
		raw := c.Params(key)
		if decoded, err := url.PathUnescape(raw); err == nil {
			return decoded
		}
		return raw
	}
}

// OwnerCheck admits callers acting on their own resources only.
type OwnerCheck struct {
	claim Claim
}

// RequireOwner constructs an ownership stage for the given claim extractor.
func RequireOwner(claim Claim) *OwnerCheck {
	return &OwnerCheck{claim: claim}
}

// Name identifies the stage in metrics.
func (o *OwnerCheck) Name() string {
	return "owner"
}

// Admit compares the claimed identity with the verified one.
func (o *OwnerCheck) Admit(c *fiber.Ctx) Admission {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return Reject(apperrors.NewUnauthorized(msgUnauthorized))
	}
	if claimed := o.claim(c); claimed == "" || claimed != identity.Email {
		return Reject(apperrors.NewForbidden(msgForbidden))
	}
	return Admit(identity)
}
