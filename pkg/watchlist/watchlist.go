package watchlist

import (
	"regexp"
	"sort"
	"sync"

	"github.com/go-faster/errors"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{3,4}$`)

var (
	ErrInvalidSymbol = errors.New("invalid stock name format. Use 3-4 letter code")
	ErrInvalidPrice  = errors.New("invalid price format")
)

// Entry is one monitored symbol and the price at or below which it is sold.
type Entry struct {
	Symbol      string  `json:"stock" yaml:"sym"`
	TargetPrice float64 `json:"target_price" yaml:"price"`
}

// Validate checks the symbol format and that the target is positive.
func (e Entry) Validate() error {
	if !ValidSymbol(e.Symbol) {
		return errors.Wrapf(ErrInvalidSymbol, "symbol %q", e.Symbol)
	}
	if !(e.TargetPrice > 0) {
		return errors.Wrapf(ErrInvalidPrice, "target price %v", e.TargetPrice)
	}
	return nil
}

// ValidSymbol reports whether s is an uppercase 3-4 letter code.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

// Store owns the process watchlist.
type Store interface {
	Upsert(e Entry) error
	Entries() []Entry
	Snapshot() map[string]float64
	// RemoveIf deletes symbol only while its target still equals target.
	RemoveIf(symbol string, target float64) bool
	Reset()
	Len() int
}

// MemoryStore is a mutex guarded in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	targets map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{targets: make(map[string]float64)}
}

func (s *MemoryStore) Upsert(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[e.Symbol] = e.TargetPrice
	return nil
}

// Entries returns the watchlist sorted by symbol.
func (s *MemoryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.targets))
	for sym, target := range s.targets {
		out = append(out, Entry{Symbol: sym, TargetPrice: target})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Snapshot returns a copy of the symbol -> target mapping.
func (s *MemoryStore) Snapshot() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.targets))
	for sym, target := range s.targets {
		out[sym] = target
	}
	return out
}

func (s *MemoryStore) RemoveIf(symbol string, target float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.targets[symbol]
	if !ok || current != target {
		return false
	}
	delete(s.targets, symbol)
	return true
}

func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = make(map[string]float64)
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.targets)
}
