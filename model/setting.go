package model

// Setting is one per-save key/value option, unique per (save, key).
// A nil value is stored as SQL NULL.
type Setting struct {
	ID     int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	SaveID int64   `gorm:"uniqueIndex:idx_save_setting_key;not null" json:"-"`
	Key    string  `gorm:"uniqueIndex:idx_save_setting_key;size:64;not null" json:"key"`
	Value  *string `gorm:"size:255" json:"value"`
}

func (Setting) TableName() string { return "settings" }
