package model

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one named blob in the local store. The offboarding requests live
// under a single key as a JSON array.
type KVEntry struct {
	Name      string         `json:"name" gorm:"primaryKey;size:191"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
