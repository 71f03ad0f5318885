package models

import (
	"time"
)

type User struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	FirebaseUID string     `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Username    string     `gorm:"size:30;not null" json:"username"`
	// Calendar date of the most recent accepted comment, drives the
	// one-post-per-day gate.
	LastPostDate *time.Time `gorm:"type:date" json:"last_post_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
