// Package history remembers the values a user submitted for each filter
// field, most recent first, so the suggestion engine can offer them again.
//
// History is a usability aid: backend failures are logged and dropped and
// never reach the caller.
package history

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/aqx/internal/query"
)

const (
	// DefaultNamespace is the key of the persisted history blob.
	DefaultNamespace = "aqx.search.history"
	// DefaultCapacity is the number of values kept per field.
	DefaultCapacity = 10
)

// Store maps field keys to bounded most-recent-first value lists, persisted as
// one JSON blob `{"field": ["v1", ...]}` in a KV backend.
type Store struct {
	mu        sync.Mutex
	kv        KV
	namespace string
	capacity  int
	log       logr.Logger

	// loaded is set once the blob has been read. Until then nothing is
	// written back, so an unreadable backend never loses stored history.
	loaded bool
	lists  map[string]*Recent
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace sets the backend key of the history blob.
func WithNamespace(ns string) Option {
	return func(s *Store) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithCapacity sets the per-field cap.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithLogger sets the logger used for swallowed backend failures.
func WithLogger(lgr logr.Logger) Option {
	return func(s *Store) { s.log = lgr }
}

// New returns a store over kv. A nil kv keeps history in memory only.
func New(kv KV, opts ...Option) *Store {
	if kv == nil {
		kv = NewMemoryKV()
	}
	s := &Store{
		kv:        kv,
		namespace: DefaultNamespace,
		capacity:  DefaultCapacity,
		log:       logr.Discard(),
		lists:     make(map[string]*Recent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record moves value to the front of field's list and persists the result.
func (s *Store) Record(field, value string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded := s.load()
	if s.add(field, value) && loaded {
		s.persist()
	}
}

// RecordConditions records every field/value pair of a submitted expression
// and persists once.
func (s *Store) RecordConditions(conds []query.Condition) {
	if s == nil || len(conds) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded := s.load()
	changed := false
	for _, c := range conds {
		if s.add(c.Field, c.Value) {
			changed = true
		}
	}
	if changed && loaded {
		s.persist()
	}
}

// Lookup returns field's values, most recent first. Unknown fields yield nil.
func (s *Store) Lookup(field string) []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	r, ok := s.lists[normalizeField(field)]
	if !ok {
		return nil
	}
	return r.Values()
}

// Snapshot returns a deep copy of the whole mapping.
func (s *Store) Snapshot() map[string][]string {
	out := make(map[string][]string)
	if s == nil {
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	for field, r := range s.lists {
		out[field] = r.Values()
	}
	return out
}

// Fields returns the fields that have history, sorted.
func (s *Store) Fields() []string {
	snap := s.Snapshot()
	fields := make([]string, 0, len(snap))
	for f := range snap {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Capacity returns the per-field cap.
func (s *Store) Capacity() int {
	if s == nil {
		return DefaultCapacity
	}
	return s.capacity
}

func (s *Store) add(field, value string) bool {
	field = normalizeField(field)
	if field == "" || value == "" {
		return false
	}
	r, ok := s.lists[field]
	if !ok {
		r = NewRecent(s.capacity)
		s.lists[field] = r
	}
	if evicted, did := r.Add(value); did {
		s.log.V(2).Info("history entry evicted", "field", field, "value", evicted)
	}
	return true
}

// load reads the blob until a read succeeds and reports whether it has. A
// missing blob counts as read. Values recorded while the backend was
// unreadable are replayed on top of the stored ones once it answers.
func (s *Store) load() bool {
	if s.loaded {
		return true
	}

	data, err := s.kv.Get(s.namespace)
	switch {
	case errors.Is(err, ErrNotFound):
		s.merge(nil)
	case err != nil:
		s.log.V(1).Info("history unavailable, will retry", "namespace", s.namespace, "error", err.Error())
		return false
	default:
		var raw map[string][]string
		if err := json.Unmarshal(data, &raw); err != nil {
			s.log.V(1).Info("history blob is corrupt, starting empty", "namespace", s.namespace, "error", err.Error())
			break
		}
		s.merge(raw)
	}
	s.loaded = true
	return true
}

// merge replaces the in-memory lists with stored and then re-adds what was
// recorded before the first successful read, which stays most recent.
func (s *Store) merge(stored map[string][]string) {
	pending := s.lists
	s.lists = make(map[string]*Recent, len(stored)+len(pending))
	for field, values := range stored {
		s.replay(normalizeField(field), values)
	}
	for field, r := range pending {
		s.replay(field, r.Values())
	}
	if len(pending) > 0 {
		s.persist()
	}
}

// replay adds values, stored most-recent-first, oldest first to keep that
// order.
func (s *Store) replay(field string, values []string) {
	if field == "" {
		return
	}
	r, ok := s.lists[field]
	if !ok {
		r = NewRecent(s.capacity)
		s.lists[field] = r
	}
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != "" {
			r.Add(values[i])
		}
	}
}

func (s *Store) persist() {
	blob := make(map[string][]string, len(s.lists))
	for field, r := range s.lists {
		blob[field] = r.Values()
	}
	data, err := json.Marshal(blob)
	if err != nil {
		s.log.V(1).Info("encoding history failed", "error", err.Error())
		return
	}
	if err := s.kv.Set(s.namespace, data); err != nil {
		s.log.V(1).Info("saving history failed", "namespace", s.namespace, "error", err.Error())
	}
}

func normalizeField(field string) string {
	return strings.ToLower(strings.TrimSpace(field))
}
