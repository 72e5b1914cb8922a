package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity models
type User struct {
	ID        uuid.UUID              `json:"id"`
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Phone     string                 `json:"phone,omitempty"`
	AvatarURL string                 `json:"avatar_url,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type RegisterUserRequest struct {
	Email    string                 `json:"email"`
	Name     string                 `json:"name"`
	Phone    string                 `json:"phone,omitempty"`
	Password string                 `json:"password"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Pet registry models
type Pet struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"` // dog, cat, bird, exotic
	Breed     string    `json:"breed,omitempty"`
	BirthDate time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePetRequest struct {
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed,omitempty"`
	BirthDate time.Time `json:"birth_date,omitempty"`
}

// Medical-history sharing models
type ShareToken struct {
	ID          uuid.UUID  `json:"id"`
	PetID       uuid.UUID  `json:"pet_id"`
	Token       string     `json:"token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	AccessedAt  *time.Time `json:"accessed_at,omitempty"`
	AccessCount int64      `json:"access_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

type IssuedShare struct {
	TokenID   uuid.UUID `json:"token_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ShareURL  string    `json:"share_url"`
}

type CreateShareRequest struct {
	ExpirationHours int `json:"expiration_hours,omitempty"`
}

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // share.token.issued, share.token.revoked, webhook.received
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Webhook models
type WebhookPayload struct {
	Event      string                 `json:"event"`
	ResourceID string                 `json:"resource_id"`
	Timestamp  string                 `json:"timestamp"`
	Data       map[string]interface{} `json:"data,omitempty"`
}
