package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-store/internal/repository"
)

// runStoreContract exercises the behaviour every Store backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("insert assigns id and find returns it", func(t *testing.T) {
		ctx := context.Background()
		parts := newStore(t).Collection("parts")

		res, err := parts.InsertOne(ctx, repository.Document{"name": "brake pad", "quantity": 4})
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		require.NotEmpty(t, res.InsertedID)

		doc, err := parts.FindOne(ctx, repository.ByID(res.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, "brake pad", doc["name"])
		assert.Equal(t, float64(4), doc["quantity"])
		assert.Equal(t, res.InsertedID, doc.ID())

		all, err := parts.Find(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("insert keeps caller id and rejects duplicates", func(t *testing.T) {
		ctx := context.Background()
		parts := newStore(t).Collection("parts")

		res, err := parts.InsertOne(ctx, repository.Document{repository.IDField: "p-1", "name": "filter"})
		require.NoError(t, err)
		assert.Equal(t, "p-1", res.InsertedID)

		_, err = parts.InsertOne(ctx, repository.Document{repository.IDField: "p-1", "name": "other"})
		assert.ErrorIs(t, err, repository.ErrDuplicateID)
	})

	t.Run("collections are isolated", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		_, err := store.Collection("parts").InsertOne(ctx, repository.Document{"name": "spark plug"})
		require.NoError(t, err)

		orders, err := store.Collection("orders").Find(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("find filters by field equality", func(t *testing.T) {
		ctx := context.Background()
		orders := newStore(t).Collection("orders")

		for _, user := range []string{"a@x.com", "b@x.com", "a@x.com"} {
			_, err := orders.InsertOne(ctx, repository.Document{"user": user})
			require.NoError(t, err)
		}

		mine, err := orders.Find(ctx, repository.Filter{"user": "a@x.com"})
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		_, err = orders.FindOne(ctx, repository.Filter{"user": "c@x.com"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("update merges and reports counts", func(t *testing.T) {
		ctx := context.Background()
		users := newStore(t).Collection("users")

		_, err := users.InsertOne(ctx, repository.Document{"email": "a@x.com", "name": "Ann"})
		require.NoError(t, err)

		res, err := users.UpdateOne(ctx, repository.Filter{"email": "a@x.com"}, repository.Document{"role": "admin"}, repository.UpdateOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)
		assert.Nil(t, res.UpsertedID)

		doc, err := users.FindOne(ctx, repository.Filter{"email": "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, "Ann", doc["name"])
		assert.Equal(t, "admin", doc["role"])

		res, err = users.UpdateOne(ctx, repository.Filter{"email": "a@x.com"}, repository.Document{"role": "admin"}, repository.UpdateOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Zero(t, res.ModifiedCount)
	})

	t.Run("update replaces nested fields whole", func(t *testing.T) {
		ctx := context.Background()
		users := newStore(t).Collection("users")

		_, err := users.InsertOne(ctx, repository.Document{
			"email":   "a@x.com",
			"tags":    []any{"a", "b"},
			"address": map[string]any{"city": "A", "zip": "1"},
		})
		require.NoError(t, err)

		res, err := users.UpdateOne(ctx, repository.Filter{"email": "a@x.com"}, repository.Document{
			"tags":    []any{"a"},
			"address": map[string]any{"city": "A"},
		}, repository.UpdateOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)

		doc, err := users.FindOne(ctx, repository.Filter{"email": "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, []any{"a"}, doc["tags"])
		assert.Equal(t, map[string]any{"city": "A"}, doc["address"])
	})

	t.Run("concurrent upserts create one document", func(t *testing.T) {
		ctx := context.Background()
		users := newStore(t).Collection("users")
		filter := repository.Filter{"email": "race@x.com"}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := users.UpdateOne(ctx, filter, repository.Document{"name": "racer"}, repository.UpdateOptions{Upsert: true})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		all, err := users.Find(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("update cannot rewrite id", func(t *testing.T) {
		ctx := context.Background()
		users := newStore(t).Collection("users")

		ins, err := users.InsertOne(ctx, repository.Document{"email": "a@x.com"})
		require.NoError(t, err)

		_, err = users.UpdateOne(ctx, repository.ByID(ins.InsertedID), repository.Document{repository.IDField: "hijack", "name": "Ann"}, repository.UpdateOptions{})
		require.NoError(t, err)

		doc, err := users.FindOne(ctx, repository.Filter{"email": "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, ins.InsertedID, doc.ID())
	})

	t.Run("update without upsert leaves store untouched", func(t *testing.T) {
		ctx := context.Background()
		users := newStore(t).Collection("users")

		res, err := users.UpdateOne(ctx, repository.Filter{"email": "ghost@x.com"}, repository.Document{"role": "admin"}, repository.UpdateOptions{})
		require.NoError(t, err)
		assert.Zero(t, res.MatchedCount)
		assert.Zero(t, res.UpsertedCount)

		all, err := users.Find(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("upsert creates once", func(t *testing.T) {
		ctx := context.Background()
		users := newStore(t).Collection("users")
		filter := repository.Filter{"email": "new@x.com"}
		set := repository.Document{"name": "Neo"}

		first, err := users.UpdateOne(ctx, filter, set, repository.UpdateOptions{Upsert: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.UpsertedCount)
		require.NotNil(t, first.UpsertedID)

		second, err := users.UpdateOne(ctx, filter, set, repository.UpdateOptions{Upsert: true})
		require.NoError(t, err)
		assert.Zero(t, second.UpsertedCount)
		assert.Equal(t, int64(1), second.MatchedCount)

		all, err := users.Find(ctx, filter)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Neo", all[0]["name"])
		assert.Equal(t, *first.UpsertedID, all[0].ID())
	})

	t.Run("delete removes a single match", func(t *testing.T) {
		ctx := context.Background()
		parts := newStore(t).Collection("parts")

		ins, err := parts.InsertOne(ctx, repository.Document{"name": "belt"})
		require.NoError(t, err)

		res, err := parts.DeleteOne(ctx, repository.ByID(ins.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.DeletedCount)

		res, err = parts.DeleteOne(ctx, repository.ByID(ins.InsertedID))
		require.NoError(t, err)
		assert.Zero(t, res.DeletedCount)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
