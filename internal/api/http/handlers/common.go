package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-store/internal/auth"
	"github.com/spec-kit/parts-store/internal/repository"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// parseDocument decodes a JSON object body.
func parseDocument(c *fiber.Ctx) (repository.Document, error) {
	var doc repository.Document
	if err := c.BodyParser(&doc); err != nil || doc == nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	return doc, nil
}

// pathParam returns a decoded, required route parameter.
func pathParam(c *fiber.Ctx, key string) (string, error) {
	raw := c.Params(key)
	value, err := url.PathUnescape(raw)
	if err != nil {
		value = raw
	}
	if value == "" {
		return "", apperrors.NewValidationError(key+" required", nil)
	}
	return value, nil
}

// identity returns the caller admitted by the route's guard.
func identity(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return auth.Identity{}, apperrors.NewUnauthorized("unauthorized access")
	}
	return id, nil
}
