package repository

import (
	"offboarding-backend/internal/model"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository stores named blobs. A missing name yields gorm.ErrRecordNotFound
// from every implementation.
type KVRepository interface {
	Get(name string) (*model.KVEntry, error)
	Put(entry *model.KVEntry) error
}

type kvRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) KVRepository {
	return &kvRepository{db}
}

func (r *kvRepository) Get(name string) (*model.KVEntry, error) {
	var entry model.KVEntry
	err := r.db.Where("name = ?", name).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *kvRepository) Put(entry *model.KVEntry) error {
	// Upsert: the name is the primary key, so a second write replaces the value
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error
}

type memoryKVRepository struct {
	mu      sync.Mutex
	entries map[string]model.KVEntry
}

// NewMemoryKVRepository keeps entries in process memory. Used by tests and by
// `offboardctl --memory` dry runs.
func NewMemoryKVRepository() KVRepository {
	return &memoryKVRepository{entries: make(map[string]model.KVEntry)}
}

func (r *memoryKVRepository) Get(name string) (*model.KVEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	entry.Value = append([]byte(nil), entry.Value...)
	return &entry, nil
}

func (r *memoryKVRepository) Put(entry *model.KVEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *entry
	stored.Value = append([]byte(nil), entry.Value...)
	stored.UpdatedAt = time.Now()
	r.entries[entry.Name] = stored
	return nil
}
