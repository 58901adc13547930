package models

import (
	"database/sql"
	"time"
)

// Card represents one word/translation pair being drilled. OwnerID is null
// while the owner is an unresolved placeholder; in that case PendingOwner
// holds the display name the card is waiting on.
type Card struct {
	ID           string         `json:"id" db:"id"`
	OwnerID      sql.NullInt64  `json:"owner_id" db:"owner_id"`
	PendingOwner sql.NullString `json:"pending_owner" db:"pending_owner"`
	Word         string         `json:"word" db:"word"`
	Translation  string         `json:"translation" db:"translation"`
	MasteryCount int            `json:"mastery_count" db:"mastery_count"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}
