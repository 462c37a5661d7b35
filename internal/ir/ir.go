package ir

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const Version = "1.0"

// RuleID is the dotted identifier of a single lint rule, e.g. Generic.Files.LineLength.
type RuleID string

// Record is one discovered rule.
type Record struct {
	ID       RuleID `json:"id"`
	Origin   string `json:"origin,omitempty"` // discovery-run local, never persisted
	Metadata Value  `json:"metadata"`
}

// DuplicateRuleError is returned when two rule definitions canonicalize to the same id.
type DuplicateRuleError struct {
	ID     RuleID
	First  string
	Second string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("duplicate rule %s (%s and %s)", e.ID, e.First, e.Second)
}

// Registry is the immutable, sorted set of rules found in one discovery run.
type Registry struct {
	ids     []RuleID
	records map[RuleID]Record
}

// NewRegistry builds a registry from records in any order. Duplicate ids are rejected.
func NewRegistry(records []Record) (*Registry, error) {
	r := &Registry{
		ids:     make([]RuleID, 0, len(records)),
		records: make(map[RuleID]Record, len(records)),
	}
	for _, rec := range records {
		if prev, ok := r.records[rec.ID]; ok {
			return nil, &DuplicateRuleError{ID: rec.ID, First: prev.Origin, Second: rec.Origin}
		}
		r.records[rec.ID] = rec
		r.ids = append(r.ids, rec.ID)
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r, nil
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}

// IDs returns a sorted copy of the rule ids.
func (r *Registry) IDs() []RuleID {
	if r == nil {
		return nil
	}
	out := make([]RuleID, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *Registry) Has(id RuleID) bool {
	if r == nil {
		return false
	}
	_, ok := r.records[id]
	return ok
}

func (r *Registry) Get(id RuleID) (Record, bool) {
	if r == nil {
		return Record{}, false
	}
	rec, ok := r.records[id]
	return rec, ok
}

// Records returns all records in id order.
func (r *Registry) Records() []Record {
	if r == nil {
		return nil
	}
	out := make([]Record, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.records[id])
	}
	return out
}

// WithPrefix returns the ids starting with prefix, in order.
func (r *Registry) WithPrefix(prefix string) []RuleID {
	if r == nil {
		return nil
	}
	i := sort.Search(len(r.ids), func(i int) bool { return string(r.ids[i]) >= prefix })
	var out []RuleID
	for ; i < len(r.ids) && strings.HasPrefix(string(r.ids[i]), prefix); i++ {
		out = append(out, r.ids[i])
	}
	return out
}

// Snapshot drops origins and keeps id -> metadata.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{Entries: make(map[RuleID]Value, r.Len())}
	for _, rec := range r.Records() {
		s.Entries[rec.ID] = rec.Metadata
	}
	return s
}

// Fingerprint is a BLAKE2b-256 digest over the sorted id list.
func (r *Registry) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	for _, id := range r.IDs() {
		h.Write([]byte(id))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Snapshot is the registry recorded by a previous run.
type Snapshot struct {
	Entries map[RuleID]Value
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

func (s *Snapshot) Has(id RuleID) bool {
	if s == nil {
		return false
	}
	_, ok := s.Entries[id]
	return ok
}

// IDs returns the snapshot ids sorted.
func (s *Snapshot) IDs() []RuleID {
	if s == nil {
		return nil
	}
	out := make([]RuleID, 0, len(s.Entries))
	for id := range s.Entries {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
