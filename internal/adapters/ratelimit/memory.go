package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory es la versión in-process de la misma ventana fija.
// Solo sirve con una réplica; con varias usar Redis.
type Memory struct {
	mu      sync.Mutex
	cfg     Config
	now     func() time.Time
	windows map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (l *Memory) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.sweep(now)
		w = &window{resetAt: now.Add(l.cfg.Window)}
		l.windows[key] = w
	}

	w.count++
	if w.count <= l.cfg.Limit {
		return true, 0, nil
	}
	return false, w.resetAt.Sub(now), nil
}

// sweep descarta ventanas vencidas para que el mapa no crezca sin límite.
func (l *Memory) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}
