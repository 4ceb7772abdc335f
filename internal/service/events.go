package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/events"
	"github.com/spec-kit/parts-store/internal/repository"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// publisher emits domain events without letting delivery failures reach callers.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, eventType events.EventType, subject, actor string, payload any) {
	if p.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event delivery failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// changed reports whether an update touched or created a document.
func changed(result *repository.UpdateResult) bool {
	return result != nil && (result.ModifiedCount > 0 || result.UpsertedCount > 0)
}

// storeError converts a document store error into the error returned to the
// client. Anything the store cannot explain is an upstream failure.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("resource", nil)
	case errors.Is(err, repository.ErrDuplicateID):
		return apperrors.NewConflict("document already exists", nil)
	}
	return apperrors.NewUpstreamFailure("document store", err)
}
