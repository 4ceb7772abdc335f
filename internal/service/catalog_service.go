package service

import (
	"context"
	"errors"

	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/domain"
	"github.com/spec-kit/parts-store/internal/repository"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// CatalogService serves the parts catalog and customer reviews.
type CatalogService struct {
	parts   repository.Collection
	reviews repository.Collection
	upsert  config.UpsertConfig
}

// CatalogDependencies bundles collections for the catalog service.
type CatalogDependencies struct {
	Parts   repository.Collection
	Reviews repository.Collection
	Upsert  config.UpsertConfig
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{parts: deps.Parts, reviews: deps.Reviews, upsert: deps.Upsert}
}

// ListParts returns the whole catalog.
func (s *CatalogService) ListParts(ctx context.Context) ([]repository.Document, error) {
	parts, err := s.parts.Find(ctx, nil)
	if err != nil {
		return nil, storeError(err)
	}
	return parts, nil
}

// GetPart returns one part by id.
func (s *CatalogService) GetPart(ctx context.Context, id string) (repository.Document, error) {
	part, err := s.parts.FindOne(ctx, repository.ByID(id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("part", map[string]any{"id": id})
	}
	if err != nil {
		return nil, storeError(err)
	}
	return part, nil
}

// AddPart inserts a new catalog entry.
func (s *CatalogService) AddPart(ctx context.Context, part repository.Document) (*repository.InsertResult, error) {
	result, err := s.parts.InsertOne(ctx, part)
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

// SetPartQuantity overwrites the stock count of a part.
func (s *CatalogService) SetPartQuantity(ctx context.Context, id string, quantity int64) (*repository.UpdateResult, error) {
	if quantity < 0 {
		return nil, apperrors.NewValidationError("quantity must not be negative", nil)
	}
	result, err := s.parts.UpdateOne(ctx,
		repository.ByID(id),
		repository.Document{domain.FieldQuantity: quantity},
		repository.UpdateOptions{Upsert: s.upsert.PartQuantity},
	)
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

// DeletePart removes a part by id.
func (s *CatalogService) DeletePart(ctx context.Context, id string) (*repository.DeleteResult, error) {
	result, err := s.parts.DeleteOne(ctx, repository.ByID(id))
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

// ListReviews returns every review.
func (s *CatalogService) ListReviews(ctx context.Context) ([]repository.Document, error) {
	reviews, err := s.reviews.Find(ctx, nil)
	if err != nil {
		return nil, storeError(err)
	}
	return reviews, nil
}

// AddReview stores a review.
func (s *CatalogService) AddReview(ctx context.Context, review repository.Document) (*repository.InsertResult, error) {
	result, err := s.reviews.InsertOne(ctx, review)
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}
