package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat message roles
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

type ChatMessage struct {
	ID        int64
	UserID    uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}
