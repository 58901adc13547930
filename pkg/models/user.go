package models

import (
	"database/sql"
	"time"
)

// User represents a participant known to the bot. TelegramID is null for
// placeholder records created by a teacher before the person's first contact.
type User struct {
	ID               int64         `json:"id" db:"id"`
	TelegramID       sql.NullInt64 `json:"telegram_id" db:"telegram_id"`
	Username         string        `json:"username" db:"username"`
	CreatedByTeacher bool          `json:"created_by_teacher" db:"created_by_teacher"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}
