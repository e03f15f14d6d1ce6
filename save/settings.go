package save

import (
	"context"
	"errors"

	"github.com/kawasemi/dungeon-crawler/server/model"
	"gorm.io/gorm"
)

// GetSetting returns the value for key, or nil. "Key never set" and "key set
// to NULL" collapse into the same nil return; callers that need to tell them
// apart list the settings instead.
func (s *Store) GetSetting(ctx context.Context, slot int, key string) (*string, error) {
	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return nil, err
	}

	// Map conditions keep identifiers quoted; `key` is a reserved word on
	// the embedded engine's parser.
	var st model.Setting
	err = s.db.WithContext(ctx).
		Where(map[string]interface{}{"save_id": saveID, "key": key}).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return st.Value, nil
}

// GetSettings returns every setting for the slot; empty for unknown slots.
func (s *Store) GetSettings(ctx context.Context, slot int) ([]SettingData, error) {
	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return []SettingData{}, err
	}

	var settings []model.Setting
	if err := s.db.WithContext(ctx).Where("save_id = ?", saveID).Find(&settings).Error; err != nil {
		return nil, err
	}
	out := make([]SettingData, 0, len(settings))
	for _, st := range settings {
		out = append(out, SettingData{Key: st.Key, Value: st.Value})
	}
	return out, nil
}

// SetSetting upserts a key/value pair. A nil value stores SQL NULL. Unknown
// slots are a silent no-op.
func (s *Store) SetSetting(ctx context.Context, slot int, key string, value *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st model.Setting
		err := tx.Where(map[string]interface{}{"save_id": saveID, "key": key}).First(&st).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			st = model.Setting{SaveID: saveID, Key: key, Value: value}
			return tx.Create(&st).Error
		case err != nil:
			return err
		default:
			return tx.Model(&st).Update("value", value).Error
		}
	})
	if err != nil {
		return err
	}

	s.persist()
	return nil
}

// DeleteSetting removes a key; absent keys and unknown slots are no-ops.
func (s *Store) DeleteSetting(ctx context.Context, slot int, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return err
	}

	if err := s.db.WithContext(ctx).
		Where(map[string]interface{}{"save_id": saveID, "key": key}).
		Delete(&model.Setting{}).Error; err != nil {
		return err
	}

	s.persist()
	return nil
}
