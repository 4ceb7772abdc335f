package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/auth"
	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/domain"
	"github.com/spec-kit/parts-store/internal/events"
	"github.com/spec-kit/parts-store/internal/repository"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// AccountService manages user records and issues credentials.
type AccountService struct {
	users    repository.Collection
	tokenMgr *auth.TokenManager
	upsert   config.UpsertConfig
	events   publisher
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	Users      repository.Collection
	Tokens     *auth.TokenManager
	Upsert     config.UpsertConfig
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// IssuedToken is a credential handed to a client.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		users:    deps.Users,
		tokenMgr: deps.Tokens,
		upsert:   deps.Upsert,
		events:   publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
	}
}

// UpsertProfile stores the profile under email and issues a credential for it.
// The caller has already established that email belongs to the client. The
// role field is never taken from the profile.
func (s *AccountService) UpsertProfile(ctx context.Context, email string, profile repository.Document) (*repository.UpdateResult, IssuedToken, error) {
	if email == "" {
		return nil, IssuedToken{}, apperrors.NewValidationError("email required", nil)
	}
	set := repository.Document{}
	for k, v := range profile {
		set[k] = v
	}
	delete(set, domain.FieldRole)
	set[domain.FieldEmail] = email

	result, err := s.users.UpdateOne(ctx,
		repository.Filter{domain.FieldEmail: email},
		set,
		repository.UpdateOptions{Upsert: s.upsert.UserProfile},
	)
	if err != nil {
		return nil, IssuedToken{}, storeError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(email)
	if err != nil {
		return nil, IssuedToken{}, apperrors.NewInternalError(err)
	}
	return result, IssuedToken{Token: token, ExpiresAt: exp}, nil
}

// ListUsers returns every user record.
func (s *AccountService) ListUsers(ctx context.Context) ([]repository.Document, error) {
	users, err := s.users.Find(ctx, nil)
	if err != nil {
		return nil, storeError(err)
	}
	return users, nil
}

// GetProfile returns the user record for email.
func (s *AccountService) GetProfile(ctx context.Context, email string) (repository.Document, error) {
	user, err := s.users.FindOne(ctx, repository.Filter{domain.FieldEmail: email})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// PromoteAdmin sets the admin role on the user record for email.
func (s *AccountService) PromoteAdmin(ctx context.Context, actor auth.Identity, email string) (*repository.UpdateResult, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email required", nil)
	}
	result, err := s.users.UpdateOne(ctx,
		repository.Filter{domain.FieldEmail: email},
		repository.Document{domain.FieldRole: domain.RoleAdmin},
		repository.UpdateOptions{Upsert: s.upsert.UserRole},
	)
	if err != nil {
		return nil, storeError(err)
	}
	if changed(result) {
		s.events.publish(ctx, events.EventUserPromoted, email, actor.Email, events.UserPromotedPayload{Role: domain.RoleAdmin})
	}
	return result, nil
}

// IsAdmin reports whether email holds the admin role. Unknown users are not admins.
func (s *AccountService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindOne(ctx, repository.Filter{domain.FieldEmail: email})
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError(err)
	}
	role, _ := user[domain.FieldRole].(string)
	return role == domain.RoleAdmin, nil
}
