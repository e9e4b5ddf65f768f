package store

import (
	"sort"
	"sync"
)

// RoomDirectory owns the presence sets: which user ids are currently joined
// to which document. Membership has set semantics, so rejoining never
// duplicates an identity.
type RoomDirectory struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{rooms: make(map[string]map[string]struct{})}
}

// Ensure creates an empty presence set for the document if absent.
func (d *RoomDirectory) Ensure(docID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[docID]; !ok {
		d.rooms[docID] = make(map[string]struct{})
	}
}

func (d *RoomDirectory) Add(docID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.rooms[docID]
	if !ok {
		set = make(map[string]struct{})
		d.rooms[docID] = set
	}
	set[userID] = struct{}{}
}

// Remove reports whether the identity was actually present.
func (d *RoomDirectory) Remove(docID, userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.rooms[docID]
	if !ok {
		return false
	}
	if _, present := set[userID]; !present {
		return false
	}
	delete(set, userID)
	return true
}

// Members returns a sorted snapshot of the document's presence set.
func (d *RoomDirectory) Members(docID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set := d.rooms[docID]
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// RemoveEverywhere strips the identity from every presence set it appears in
// and returns the affected document ids, sorted. Used on disconnect, where
// one identity may be a member of several documents at once.
func (d *RoomDirectory) RemoveEverywhere(userID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var affected []string
	for docID, set := range d.rooms {
		if _, ok := set[userID]; ok {
			delete(set, userID)
			affected = append(affected, docID)
		}
	}
	sort.Strings(affected)
	return affected
}

// TotalUsers sums the sizes of all presence sets. An identity joined to two
// documents counts twice, matching the original health counter.
func (d *RoomDirectory) TotalUsers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	total := 0
	for _, set := range d.rooms {
		total += len(set)
	}
	return total
}
