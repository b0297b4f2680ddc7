package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"offboarding-backend/internal/model"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// OffboardingRepository is the record store: one ordered collection of
// requests serialized under a single key, newest first.
type OffboardingRepository interface {
	LoadAll() []model.OffboardingRequest
	SaveOne(req model.OffboardingRequest) error
	DeleteOne(id string) error
	GetOne(id string) (*model.OffboardingRequest, bool)
}

type offboardingRepository struct {
	mu  sync.Mutex
	kv  KVRepository
	key string
	log zerolog.Logger
}

func NewOffboardingRepository(kv KVRepository, key string, log zerolog.Logger) OffboardingRepository {
	return &offboardingRepository{kv: kv, key: key, log: log}
}

func (r *offboardingRepository) LoadAll() []model.OffboardingRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadAll()
}

// loadAll never fails: a missing key or an unreadable blob is an empty store.
func (r *offboardingRepository) loadAll() []model.OffboardingRequest {
	entry, err := r.kv.Get(r.key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn().Err(err).Str("key", r.key).Msg("store: read failed, treating as empty")
		}
		return []model.OffboardingRequest{}
	}
	if len(entry.Value) == 0 {
		return []model.OffboardingRequest{}
	}

	var list []model.OffboardingRequest
	if err := json.Unmarshal(entry.Value, &list); err != nil {
		r.log.Warn().Err(err).Str("key", r.key).Msg("store: stored data is not a request list, treating as empty")
		return []model.OffboardingRequest{}
	}
	if list == nil {
		list = []model.OffboardingRequest{}
	}
	return list
}

func (r *offboardingRepository) saveAll(list []model.OffboardingRequest) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("store: encode requests: %w", err)
	}
	if err := r.kv.Put(&model.KVEntry{Name: r.key, Value: raw}); err != nil {
		return fmt.Errorf("store: write %s: %w", r.key, err)
	}
	return nil
}

func (r *offboardingRepository) SaveOne(req model.OffboardingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.loadAll()
	idx := -1
	for i := range list {
		if list[i].ID == req.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		list[idx] = req
	} else {
		list = append([]model.OffboardingRequest{req}, list...)
	}
	return r.saveAll(list)
}

func (r *offboardingRepository) DeleteOne(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.loadAll()
	kept := list[:0]
	for _, req := range list {
		if req.ID != id {
			kept = append(kept, req)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return r.saveAll(kept)
}

func (r *offboardingRepository) GetOne(id string) (*model.OffboardingRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.loadAll() {
		if req.ID == id {
			found := req
			return &found, true
		}
	}
	return nil, false
}
