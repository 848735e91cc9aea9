package models

import (
	"time"

	"github.com/google/uuid"
)

type Household struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"
)

type Member struct {
	MemberID    int        `json:"member_id"`
	HouseholdID uuid.UUID  `json:"household_id"`
	UserID      int64      `json:"user_id"` // Telegram user ID
	ChatID      int64      `json:"chat_id"` // where reminders are delivered
	DisplayName string     `json:"display_name"`
	Role        MemberRole `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (m *Member) IsOwner() bool {
	return m.Role == RoleOwner
}
