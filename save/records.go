package save

import (
	"time"

	"github.com/kawasemi/dungeon-crawler/server/model"
)

// The record types below are what the store accepts and returns. They carry
// no internal row identifiers; callers address everything by slot number.

// PlayerData is the full set of player stats for a slot.
type PlayerData struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Exp   int    `json:"exp"`
	HP    int    `json:"hp"`
	Gold  int    `json:"gold"`
	Steps int    `json:"steps"`
}

// PlayerUpdate is a partial player mutation; nil fields are left untouched.
type PlayerUpdate struct {
	Name  *string `json:"name"`
	Level *int    `json:"level"`
	Exp   *int    `json:"exp"`
	HP    *int    `json:"hp"`
	Gold  *int    `json:"gold"`
	Steps *int    `json:"steps"`
}

// ItemData is one item stack.
type ItemData struct {
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

// RestPoint locates the base camp the player last rested at.
type RestPoint struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Floor int `json:"floor"`
}

// ProgressData is the full dungeon progression state for a slot.
type ProgressData struct {
	Floor          int             `json:"floor"`
	PlayerX        int             `json:"player_x"`
	PlayerY        int             `json:"player_y"`
	PlayerDir      model.Direction `json:"player_dir"`
	BossDefeated   bool            `json:"boss_defeated"`
	BuiltBases     []string        `json:"built_bases"`
	OpenedChests   []string        `json:"opened_chests"`
	LastRestedBase *RestPoint      `json:"last_rested_base"`
}

// ProgressUpdate is a partial progress mutation; nil fields are left
// untouched. LastRestedBase and ClearLastRestedBase are mutually exclusive:
// the former writes all three coordinate columns, the latter nulls all three.
type ProgressUpdate struct {
	Floor               *int             `json:"floor"`
	PlayerX             *int             `json:"player_x"`
	PlayerY             *int             `json:"player_y"`
	PlayerDir           *model.Direction `json:"player_dir"`
	BossDefeated        *bool            `json:"boss_defeated"`
	BuiltBases          *[]string        `json:"built_bases"`
	OpenedChests        *[]string        `json:"opened_chests"`
	LastRestedBase      *RestPoint       `json:"last_rested_base"`
	ClearLastRestedBase bool             `json:"clear_last_rested_base"`
}

// SettingData is one key/value option. A nil Value round-trips as NULL.
type SettingData struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Summary is one row of the slot listing shown on the title screen.
type Summary struct {
	Slot      int       `json:"slot"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullSave aggregates everything stored for one slot.
type FullSave struct {
	Slot      int           `json:"slot"`
	Player    PlayerData    `json:"player"`
	Items     []ItemData    `json:"items"`
	Progress  ProgressData  `json:"progress"`
	Settings  []SettingData `json:"settings"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Bundle is the writable portion of a FullSave.
type Bundle struct {
	Player   PlayerData    `json:"player"`
	Items    []ItemData    `json:"items"`
	Progress ProgressData  `json:"progress"`
	Settings []SettingData `json:"settings"`
}

// asUpdate converts full player data into an update touching every field.
func (p PlayerData) asUpdate() PlayerUpdate {
	return PlayerUpdate{
		Name:  &p.Name,
		Level: &p.Level,
		Exp:   &p.Exp,
		HP:    &p.HP,
		Gold:  &p.Gold,
		Steps: &p.Steps,
	}
}

// asUpdate converts full progress data into an update touching every field.
func (p ProgressData) asUpdate() ProgressUpdate {
	u := ProgressUpdate{
		Floor:        &p.Floor,
		PlayerX:      &p.PlayerX,
		PlayerY:      &p.PlayerY,
		PlayerDir:    &p.PlayerDir,
		BossDefeated: &p.BossDefeated,
		BuiltBases:   &p.BuiltBases,
		OpenedChests: &p.OpenedChests,
	}
	if p.LastRestedBase != nil {
		u.LastRestedBase = p.LastRestedBase
	} else {
		u.ClearLastRestedBase = true
	}
	return u
}
