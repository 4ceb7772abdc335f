package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

const identityKey = "auth_identity"

const (
	msgUnauthorized = "unauthorized access"
	msgForbidden    = "forbidden access"
)

// Identity is the authenticated caller, known only by email.
type Identity struct {
	Email string
}

// Admission is the outcome of one admission stage: either an admitted
// identity or the error the request is rejected with. The zero value rejects.
type Admission struct {
	identity Identity
	err      error
}

// Admit returns an admission for identity.
func Admit(identity Identity) Admission {
	return Admission{identity: identity}
}

// Reject returns an admission carrying err.
func Reject(err error) Admission {
	if err == nil {
		err = apperrors.NewForbidden(msgForbidden)
	}
	return Admission{err: err}
}

// Result unpacks the admission. The identity is usable only when err is nil.
func (a Admission) Result() (Identity, error) {
	if a.err != nil {
		return Identity{}, a.err
	}
	if a.identity.Email == "" {
		return Identity{}, apperrors.NewForbidden(msgForbidden)
	}
	return a.identity, nil
}

// Stage is one admission checkpoint run before a handler.
type Stage interface {
	Name() string
	Admit(c *fiber.Ctx) Admission
}

// RejectionObserver is notified whenever a stage turns a request away.
type RejectionObserver interface {
	RecordRejection(stage, code string)
}

// Guard composes stages into fiber handlers.
type Guard struct {
	observer RejectionObserver
}

// NewGuard builds a guard; observer may be nil.
func NewGuard(observer RejectionObserver) *Guard {
	return &Guard{observer: observer}
}

// Require runs the stages in order and calls the next handler only after all
// of them admitted the request. Each admitted identity replaces the one in the
// request locals.
func (g *Guard) Require(stages ...Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, stage := range stages {
			identity, err := stage.Admit(c).Result()
			if err != nil {
				g.recordRejection(stage, err)
				return err
			}
			c.Locals(identityKey, identity)
		}
		return c.Next()
	}
}

func (g *Guard) recordRejection(stage Stage, err error) {
	if g == nil || g.observer == nil {
		return
	}
	g.observer.RecordRejection(stage.Name(), apperrors.ToDomainError(err).Code)
}

// IdentityFromContext retrieves the identity attached by an admitted stage.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	if !ok || identity.Email == "" {
		return Identity{}, false
	}
	return identity, true
}
