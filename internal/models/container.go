// Package models defines the data types shared by the probe, the menu and the CLI.
package models

import (
	"fmt"
	"sort"
)

// ContainerRecord is one container as seen by a single probe cycle.
type ContainerRecord struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Image   string `yaml:"image" json:"image"`
	Running bool   `yaml:"running" json:"running"`
}

// Label returns the menu label, "name (image)" when the image is known.
func (r ContainerRecord) Label() string {
	name := r.Name
	if name == "" {
		name = r.ID
	}
	if r.Image == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, r.Image)
}

// Snapshot is an immutable set of container records keyed by ID.
// Records are kept sorted by ID so rendering order is stable.
type Snapshot []ContainerRecord

// NewSnapshot builds a snapshot from probe output. Records without an ID are
// dropped and a later duplicate of an ID replaces the earlier one.
func NewSnapshot(records []ContainerRecord) Snapshot {
	byID := make(map[string]ContainerRecord, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		byID[r.ID] = r
	}

	s := make(Snapshot, 0, len(byID))
	for _, r := range byID {
		s = append(s, r)
	}
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
	return s
}

// Find returns the record with the given ID.
func (s Snapshot) Find(id string) (ContainerRecord, bool) {
	for _, r := range s {
		if r.ID == id {
			return r, true
		}
	}
	return ContainerRecord{}, false
}

// RunningCount returns how many records are running.
func (s Snapshot) RunningCount() int {
	n := 0
	for _, r := range s {
		if r.Running {
			n++
		}
	}
	return n
}

// Change is the result of comparing two snapshots.
type Change int

const (
	Unchanged Change = iota
	Changed
)

func (c Change) String() string {
	if c == Changed {
		return "changed"
	}
	return "unchanged"
}

// Diff reports whether cur differs structurally from prev. Order is ignored;
// any difference in the set of records (any field of any record) is Changed.
func Diff(prev, cur Snapshot) Change {
	if len(prev) != len(cur) {
		return Changed
	}

	seen := make(map[string]ContainerRecord, len(prev))
	for _, r := range prev {
		seen[r.ID] = r
	}
	if len(seen) != len(prev) {
		// Not built by NewSnapshot; compare as multisets.
		return diffMultiset(prev, cur)
	}

	for _, r := range cur {
		old, ok := seen[r.ID]
		if !ok || old != r {
			return Changed
		}
		delete(seen, r.ID)
	}
	if len(seen) != 0 {
		return Changed
	}
	return Unchanged
}

func diffMultiset(prev, cur Snapshot) Change {
	counts := make(map[ContainerRecord]int, len(prev))
	for _, r := range prev {
		counts[r]++
	}
	for _, r := range cur {
		if counts[r] == 0 {
			return Changed
		}
		counts[r]--
	}
	return Unchanged
}
