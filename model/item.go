package model

// ItemTypePotion is the item every new save starts with.
const ItemTypePotion = "potion"

// Item is one item stack, unique per (save, item_type).
type Item struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	SaveID   int64  `gorm:"uniqueIndex:idx_save_item_type;not null" json:"-"`
	ItemType string `gorm:"uniqueIndex:idx_save_item_type;size:64;not null" json:"item_type"`
	Quantity int    `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
}

func (Item) TableName() string { return "items" }
