package api

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"doctree/internal/tree"
)

// Generation is one completed build. Once stored it is never mutated,
// readers may hold on to it while a newer one replaces it.
type Generation struct {
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Doctypes    int            `json:"doctypes"`
	Nodes       int            `json:"nodes"`
	Entities    []*tree.Entity `json:"entities"`
	Warnings    []string       `json:"warnings"`
}

// Store keeps the latest generation only. A failed build never
// touches it, so the previous tree stays served.
type Store struct {
	mu      sync.RWMutex
	current *Generation
	entropy io.Reader
}

func NewStore() *Store {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Store{entropy: ulid.Monotonic(src, 0)}
}

// newID is called with the write lock held, the entropy reader is not
// safe for concurrent use.
func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Put swaps in a freshly built generation and returns it.
func (s *Store) Put(doctypes int, entities []*tree.Entity, warnings []string) *Generation {
	if warnings == nil {
		warnings = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := &Generation{
		ID:          s.newID(),
		GeneratedAt: time.Now().UTC(),
		Doctypes:    doctypes,
		Nodes:       tree.Count(entities),
		Entities:    entities,
		Warnings:    warnings,
	}
	s.current = gen
	return gen
}

// Current returns the latest generation, if any build has succeeded.
func (s *Store) Current() (*Generation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}
