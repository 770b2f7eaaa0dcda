package kfxschema

import "testing"

func TestEntriesGroupsByCategory(t *testing.T) {
	m := BookMetadata{Title: "A Tale", Authors: []string{"Jane Doe"}, Identifier: "urn:isbn:123", Date: "2020-05-04T00:00:00Z"}
	entries := Entries(m)

	title := entries[CategoryKindleTitle]
	found := false
	for _, kv := range title {
		if kv[0] == "title" && kv[1] == "A Tale" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected title entry in kindle_title_metadata, got %v", title)
	}

	audit := entries[CategoryKindleAudit]
	for _, kv := range audit {
		if kv[0] == "issue_date" && kv[1] != "2020-05-04" {
			t.Fatalf("issue_date not truncated: got %q", kv[1])
		}
	}
}

func TestDeriveBookIDIsDeterministic(t *testing.T) {
	a := DeriveBookID("urn:isbn:9780000000000")
	b := DeriveBookID("urn:isbn:9780000000000")
	if a != b || len(a) != 23 {
		t.Fatalf("DeriveBookID: got %q (len %d)", a, len(a))
	}
}

func TestLandmarkTypeRoundTrip(t *testing.T) {
	lt, ok := ToLandmarkType("toc")
	if !ok || lt != LandmarkTOC {
		t.Fatalf("ToLandmarkType(toc): got %v, %v", lt, ok)
	}
	name, ok := FromLandmarkType(LandmarkTOC)
	if !ok || name != "toc" {
		t.Fatalf("FromLandmarkType: got %q, %v", name, ok)
	}
}
