// Package candidate holds the read-only candidate pool a reveal animation walks over.
//
// The full pool is what the renderer draws (ineligible entries included, dimmed).
// Landing positions are searched in the eligible subset only and translated back
// to full-pool indexes.
package candidate

import (
	"fmt"
	"strconv"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
)

// Set is an immutable candidate pool
type Set struct {
	entries  []domain.CandidateEntry
	eligible []int // full-pool indexes of landing candidates, in scan order
	override domain.EntryID
}

// New builds a Set from the pool supplied by the candidate pool source.
// The entries are copied; later changes by the caller do not leak in.
func New(entries []domain.CandidateEntry) (*Set, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyPool
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", domain.ErrInvalidInput, i)
		}
	}

	s := &Set{entries: make([]domain.CandidateEntry, len(entries))}
	copy(s.entries, entries)
	s.index()
	return s, nil
}

// Digits returns the pool of a digit reel: faces 0-9, all eligible
func Digits() *Set {
	entries := make([]domain.CandidateEntry, domain.DigitPoolLength)
	for d := range entries {
		entries[d] = domain.CandidateEntry{ID: domain.EntryID(strconv.Itoa(d)), Eligible: true}
	}
	s, _ := New(entries)
	return s
}

func (s *Set) index() {
	s.eligible = s.eligible[:0]
	for i, e := range s.entries {
		if e.Eligible || (s.override != "" && e.ID == s.override) {
			s.eligible = append(s.eligible, i)
		}
	}
}

// ForTarget returns a view of the set in which the entries named by id are
// landing candidates even when marked ineligible. This is the "current win"
// exception: the outcome explicitly names that entry.
func (s *Set) ForTarget(id domain.EntryID) *Set {
	view := &Set{entries: s.entries, override: id}
	view.index()
	return view
}

// Len returns the size of the full pool
func (s *Set) Len() int {
	return len(s.entries)
}

// Entry returns the entry at a full-pool index
func (s *Set) Entry(i int) domain.CandidateEntry {
	return s.entries[i]
}

// Entries returns a copy of the full pool
func (s *Set) Entries() []domain.CandidateEntry {
	out := make([]domain.CandidateEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EligibleCount returns the number of landing candidates
func (s *Set) EligibleCount() int {
	return len(s.eligible)
}

// EligibleSubset returns the landing candidates in scan order
func (s *Set) EligibleSubset() []domain.CandidateEntry {
	out := make([]domain.CandidateEntry, 0, len(s.eligible))
	for _, i := range s.eligible {
		out = append(out, s.entries[i])
	}
	return out
}

// IsEligible reports whether any entry with the given id may be landed on
func (s *Set) IsEligible(id domain.EntryID) bool {
	for _, i := range s.eligible {
		if s.entries[i].ID == id {
			return true
		}
	}
	return false
}

// FullIndex maps a position in the eligible subset to the full-pool index
func (s *Set) FullIndex(eligibleIndex int) (int, error) {
	if eligibleIndex < 0 || eligibleIndex >= len(s.eligible) {
		return 0, fmt.Errorf("%w: eligible index %d out of range [0,%d)",
			domain.ErrTargetNotEligible, eligibleIndex, len(s.eligible))
	}
	return s.eligible[eligibleIndex], nil
}

// EligibleIndexOf returns the position of the first landing candidate with the given id
func (s *Set) EligibleIndexOf(id domain.EntryID) (int, bool) {
	for k, i := range s.eligible {
		if s.entries[i].ID == id {
			return k, true
		}
	}
	return 0, false
}

// Locate finds id among the landing candidates and returns its full-pool index
func (s *Set) Locate(id domain.EntryID) (int, error) {
	k, ok := s.EligibleIndexOf(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrTargetNotEligible, id)
	}
	return s.FullIndex(k)
}
