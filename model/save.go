package model

import "time"

// MaxSlots is the number of save slots the schema allows.
const MaxSlots = 3

// Save represents one save slot (1-3).
type Save struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Slot      int       `gorm:"uniqueIndex;not null;check:slot >= 1 AND slot <= 3" json:"slot"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Save) TableName() string { return "saves" }
