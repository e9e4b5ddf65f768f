package store

import (
	"reflect"
	"testing"
)

func TestAddIsIdempotent(t *testing.T) {
	d := NewRoomDirectory()
	d.Ensure("doc1")
	d.Add("doc1", "alice")
	d.Add("doc1", "alice")

	if got := d.Members("doc1"); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("expected exactly one membership, got %v", got)
	}
}

func TestRemove(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("doc1", "alice")

	if !d.Remove("doc1", "alice") {
		t.Fatalf("expected removal of present member")
	}
	if d.Remove("doc1", "alice") {
		t.Fatalf("removing absent member must be a no-op")
	}
	if d.Remove("missing", "alice") {
		t.Fatalf("removing from unknown document must be a no-op")
	}
	if got := d.Members("doc1"); len(got) != 0 {
		t.Fatalf("expected empty membership, got %v", got)
	}
}

func TestMembersSortedSnapshot(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("doc1", "carol")
	d.Add("doc1", "alice")
	d.Add("doc1", "bob")

	got := d.Members("doc1")
	want := []string{"alice", "bob", "carol"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Snapshot must be detached from the live set.
	got[0] = "mallory"
	if members := d.Members("doc1"); !reflect.DeepEqual(members, want) {
		t.Fatalf("snapshot mutation leaked into directory: %v", members)
	}
}

func TestRemoveEverywhere(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("doc1", "alice")
	d.Add("doc2", "alice")
	d.Add("doc2", "bob")
	d.Add("doc3", "bob")

	affected := d.RemoveEverywhere("alice")
	if !reflect.DeepEqual(affected, []string{"doc1", "doc2"}) {
		t.Fatalf("unexpected affected documents: %v", affected)
	}
	if got := d.Members("doc1"); len(got) != 0 {
		t.Fatalf("alice still present in doc1: %v", got)
	}
	if got := d.Members("doc2"); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Fatalf("doc2 membership wrong: %v", got)
	}

	if affected := d.RemoveEverywhere("alice"); len(affected) != 0 {
		t.Fatalf("second removal must affect nothing, got %v", affected)
	}
}

func TestTotalUsersCountsPerDocument(t *testing.T) {
	d := NewRoomDirectory()
	if d.TotalUsers() != 0 {
		t.Fatalf("expected zero users initially")
	}

	d.Add("doc1", "alice")
	d.Add("doc2", "alice")
	d.Add("doc2", "bob")

	// alice counts once per document she is joined to.
	if got := d.TotalUsers(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	d := NewRoomDirectory()
	d.Ensure("doc1")
	d.Add("doc1", "alice")
	d.Ensure("doc1")

	if got := d.Members("doc1"); len(got) != 1 {
		t.Fatalf("Ensure must not reset membership, got %v", got)
	}
}
