package repository

import (
	"context"
	"reflect"
	"sync"
)

// memoryStore keeps collections in process memory. It backs local runs without
// POSTGRES_DSN and the handler tests.
type memoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *memoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[name]
	if !ok {
		coll = &memoryCollection{}
		s.collections[name] = coll
	}
	return coll
}

func (s *memoryStore) Ping(context.Context) error {
	return nil
}

type memoryCollection struct {
	mu   sync.RWMutex
	docs []Document
}

func (c *memoryCollection) Find(_ context.Context, filter Filter) ([]Document, error) {
	norm, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := []Document{}
	for _, doc := range c.docs {
		if !matches(doc, norm) {
			continue
		}
		cp, err := copyDocument(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, cp)
	}
	return result, nil
}

func (c *memoryCollection) FindOne(_ context.Context, filter Filter) (Document, error) {
	norm, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexOf(norm); idx >= 0 {
		return copyDocument(c.docs[idx])
	}
	return nil, ErrNotFound
}

func (c *memoryCollection) InsertOne(_ context.Context, doc Document) (*InsertResult, error) {
	prepared, err := prepareInsert(doc)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(map[string]any{IDField: prepared.ID()}) >= 0 {
		return nil, ErrDuplicateID
	}
	c.docs = append(c.docs, prepared)
	return &InsertResult{Acknowledged: true, InsertedID: prepared.ID()}, nil
}

func (c *memoryCollection) UpdateOne(_ context.Context, filter Filter, set Document, opts UpdateOptions) (*UpdateResult, error) {
	norm, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	prepared, err := prepareSet(set)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	result := &UpdateResult{Acknowledged: true}
	idx := c.indexOf(norm)
	if idx < 0 {
		if !opts.Upsert {
			return result, nil
		}
		doc, err := upsertDocument(norm, prepared)
		if err != nil {
			return nil, err
		}
		c.docs = append(c.docs, doc)
		upsertedID := doc.ID()
		result.UpsertedCount = 1
		result.UpsertedID = &upsertedID
		return result, nil
	}

	result.MatchedCount = 1
	if matches(c.docs[idx], prepared) {
		return result, nil
	}
	for k, v := range prepared {
		c.docs[idx][k] = v
	}
	result.ModifiedCount = 1
	return result, nil
}

func (c *memoryCollection) DeleteOne(_ context.Context, filter Filter) (*DeleteResult, error) {
	norm, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(norm)
	if idx < 0 {
		return &DeleteResult{Acknowledged: true}, nil
	}
	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)
	return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (c *memoryCollection) indexOf(filter map[string]any) int {
	for i, doc := range c.docs {
		if matches(doc, filter) {
			return i
		}
	}
	return -1
}

func matches(doc Document, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// copyDocument returns a deep copy so callers never share nested values with
// stored state.
func copyDocument(doc Document) (Document, error) {
	norm, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	return norm, nil
}
