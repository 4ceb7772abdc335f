package dto

import (
	"time"

	"github.com/spec-kit/parts-store/internal/repository"
)

// ProfileResponse is returned by the profile upsert that issues a credential.
type ProfileResponse struct {
	Result    *repository.UpdateResult `json:"result"`
	Token     string                   `json:"token"`
	ExpiresAt time.Time                `json:"expiresAt"`
}

// AdminStatusResponse answers whether an email holds the admin role.
type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}
