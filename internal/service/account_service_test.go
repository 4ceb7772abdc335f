package service_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-store/internal/auth"
	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/domain"
	"github.com/spec-kit/parts-store/internal/events"
	"github.com/spec-kit/parts-store/internal/repository"
	"github.com/spec-kit/parts-store/internal/service"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

var allUpserts = config.UpsertConfig{
	UserProfile:  true,
	UserRole:     true,
	PartQuantity: true,
	OrderPayment: true,
	OrderStatus:  true,
}

type eventSink struct {
	mu     sync.Mutex
	events []events.Event
}

func newEventSink(dispatcher events.Dispatcher, types ...events.EventType) *eventSink {
	sink := &eventSink{}
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			sink.mu.Lock()
			defer sink.mu.Unlock()
			sink.events = append(sink.events, event)
			return nil
		})
	}
	return sink
}

func (s *eventSink) received() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event{}, s.events...)
}

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}

func newAccountService(t *testing.T, upsert config.UpsertConfig) (*service.AccountService, repository.Collection, *auth.TokenManager, *eventSink) {
	t.Helper()
	users := repository.NewMemoryStore().Collection(domain.CollectionUsers)
	tokens := auth.NewTokenManager("secret", time.Hour)
	dispatcher := events.NewInMemoryDispatcher()
	sink := newEventSink(dispatcher, events.EventUserPromoted)
	svc := service.NewAccountService(service.AccountDependencies{
		Users:      users,
		Tokens:     tokens,
		Upsert:     upsert,
		Dispatcher: dispatcher,
	})
	return svc, users, tokens, sink
}

func TestAccountService_UpsertProfileIssuesToken(t *testing.T) {
	svc, users, tokens, _ := newAccountService(t, allUpserts)
	ctx := context.Background()

	result, issued, err := svc.UpsertProfile(ctx, "a@x.com", repository.Document{"name": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.UpsertedCount)

	claims, err := tokens.ParseToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, time.Minute)

	doc, err := users.FindOne(ctx, repository.Filter{domain.FieldEmail: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", doc["name"])
}

func TestAccountService_UpsertProfileCannotGrantRoleOrChangeEmail(t *testing.T) {
	svc, users, _, _ := newAccountService(t, allUpserts)
	ctx := context.Background()

	_, _, err := svc.UpsertProfile(ctx, "a@x.com", repository.Document{
		domain.FieldRole:  domain.RoleAdmin,
		domain.FieldEmail: "root@x.com",
	})
	require.NoError(t, err)

	doc, err := users.FindOne(ctx, repository.Filter{domain.FieldEmail: "a@x.com"})
	require.NoError(t, err)
	assert.NotContains(t, doc, domain.FieldRole)

	admin, err := svc.IsAdmin(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, admin)

	_, err = users.FindOne(ctx, repository.Filter{domain.FieldEmail: "root@x.com"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccountService_UpsertProfileKeepsExistingRole(t *testing.T) {
	svc, users, _, _ := newAccountService(t, allUpserts)
	ctx := context.Background()

	_, err := users.InsertOne(ctx, repository.Document{domain.FieldEmail: "root@x.com", domain.FieldRole: domain.RoleAdmin})
	require.NoError(t, err)

	_, _, err = svc.UpsertProfile(ctx, "root@x.com", repository.Document{"name": "Root"})
	require.NoError(t, err)

	admin, err := svc.IsAdmin(ctx, "root@x.com")
	require.NoError(t, err)
	assert.True(t, admin)
}

func TestAccountService_UpsertDisabledDoesNotCreate(t *testing.T) {
	svc, users, _, _ := newAccountService(t, config.UpsertConfig{})
	ctx := context.Background()

	result, _, err := svc.UpsertProfile(ctx, "a@x.com", repository.Document{"name": "Ann"})
	require.NoError(t, err)
	assert.Zero(t, result.UpsertedCount)

	all, err := users.Find(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAccountService_PromoteAdmin(t *testing.T) {
	svc, _, _, sink := newAccountService(t, allUpserts)
	ctx := context.Background()
	actor := auth.Identity{Email: "root@x.com"}

	result, err := svc.PromoteAdmin(ctx, actor, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.UpsertedCount)

	admin, err := svc.IsAdmin(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.True(t, admin)

	result, err = svc.PromoteAdmin(ctx, actor, "bob@x.com")
	require.NoError(t, err)
	assert.Zero(t, result.ModifiedCount)

	received := sink.received()
	require.Len(t, received, 1)
	assert.Equal(t, "bob@x.com", received[0].Subject)
	assert.Equal(t, "root@x.com", received[0].Actor)
}

func TestAccountService_GetProfile(t *testing.T) {
	svc, _, _, _ := newAccountService(t, allUpserts)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "ghost@x.com")
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	_, _, err = svc.UpsertProfile(ctx, "a@x.com", repository.Document{"name": "Ann"})
	require.NoError(t, err)

	doc, err := svc.GetProfile(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", doc["name"])

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAccountService_IsAdminUnknownUser(t *testing.T) {
	svc, _, _, _ := newAccountService(t, allUpserts)

	admin, err := svc.IsAdmin(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, admin)
}
