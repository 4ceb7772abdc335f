package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-store/internal/api/dto"
	"github.com/spec-kit/parts-store/internal/service"
)

// UsersHandler exposes user records and credential issuance.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// Get GET /user/:email.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}
	user, err := h.accounts.GetProfile(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Upsert PUT /user/:email stores the profile and issues a credential.
func (h *UsersHandler) Upsert(c *fiber.Ctx) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}
	profile, err := parseDocument(c)
	if err != nil {
		return err
	}
	result, token, err := h.accounts.UpsertProfile(c.UserContext(), email, profile)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProfileResponse{Result: result, Token: token.Token, ExpiresAt: token.ExpiresAt})
}

// Promote PUT /user/admin/:email.
func (h *UsersHandler) Promote(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}
	result, err := h.accounts.PromoteAdmin(c.UserContext(), caller, email)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// AdminStatus GET /admin/:email.
func (h *UsersHandler) AdminStatus(c *fiber.Ctx) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}
	admin, err := h.accounts.IsAdmin(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminStatusResponse{Admin: admin})
}
