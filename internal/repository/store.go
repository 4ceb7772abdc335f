package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// IDField is the document key holding the store-assigned identifier.
const IDField = "_id"

var (
	// ErrNotFound is returned by FindOne when no document matches the filter.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateID is returned by InsertOne when the _id is already taken.
	ErrDuplicateID = errors.New("duplicate document id")
)

// Document is a schemaless JSON object as stored in a collection.
type Document map[string]any

// ID returns the document identifier, or "" when unset.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// Filter selects documents by equality on top-level fields.
type Filter map[string]any

// ByID builds a filter matching a single document identifier.
func ByID(id string) Filter {
	return Filter{IDField: id}
}

// UpdateOptions controls UpdateOne behaviour.
type UpdateOptions struct {
	// Upsert inserts filter+set as a new document when nothing matches.
	Upsert bool
}

// InsertResult mirrors the acknowledgement returned for insertOne.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult mirrors the acknowledgement returned for updateOne.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult mirrors the acknowledgement returned for deleteOne.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection exposes the five generic document operations.
type Collection interface {
	Find(ctx context.Context, filter Filter) ([]Document, error)
	FindOne(ctx context.Context, filter Filter) (Document, error)
	InsertOne(ctx context.Context, doc Document) (*InsertResult, error)
	// UpdateOne merges set into the first matching document.
	UpdateOne(ctx context.Context, filter Filter, set Document, opts UpdateOptions) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error)
}

// Store hands out named collections backed by one connection handle.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
}

// normalize round-trips a value through JSON so every backend sees the same
// shapes (float64 numbers, map[string]any objects).
func normalize(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// prepareInsert copies doc and assigns an _id when the caller did not set one.
func prepareInsert(doc Document) (Document, error) {
	norm, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if id, ok := norm[IDField].(string); !ok || id == "" {
		norm[IDField] = uuid.NewString()
	}
	return norm, nil
}

// prepareSet normalizes an update and drops any attempt to rewrite _id.
func prepareSet(set Document) (Document, error) {
	norm, err := normalize(set)
	if err != nil {
		return nil, err
	}
	delete(norm, IDField)
	return norm, nil
}

// upsertDocument builds the document inserted when an upsert matches nothing.
// An _id named by the filter becomes the new document's id.
func upsertDocument(filter Filter, set Document) (Document, error) {
	doc, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	for k, v := range set {
		doc[k] = v
	}
	if id, ok := doc[IDField].(string); !ok || id == "" {
		doc[IDField] = uuid.NewString()
	}
	return doc, nil
}
