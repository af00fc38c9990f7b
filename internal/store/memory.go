package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

// MemoryStates — состояния живут до конца процесса, без истечения и очистки.
type MemoryStates struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewMemoryStates() *MemoryStates {
	return &MemoryStates{
		cache: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

func (s *MemoryStates) Get(_ context.Context, userID string) (*dialog.State, error) {
	if x, found := s.cache.Get(userID); found {
		return x.(*dialog.State), nil
	}

	st := dialog.NewState(s.now())
	if err := s.cache.Add(userID, st, cache.NoExpiration); err != nil {
		// кто-то успел создать раньше
		if x, found := s.cache.Get(userID); found {
			return x.(*dialog.State), nil
		}
		return nil, err
	}
	return st, nil
}

func (s *MemoryStates) Put(_ context.Context, userID string, st *dialog.State) error {
	s.cache.Set(userID, st, cache.NoExpiration)
	return nil
}

func (s *MemoryStates) Len() int {
	return s.cache.ItemCount()
}
