package dict

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewNormalizesAndDrops(t *testing.T) {
	d, err := New([]string{"cat", "  Dog ", "c4t", "", "über", "CAT"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// "c4t", "" and "über" dropped; "CAT" is a duplicate of "cat".
	if d.Len() != 2 {
		t.Fatalf("expected 2 words, got %d", d.Len())
	}
	if !d.Contains("CAT") || !d.Contains("dog") {
		t.Fatal("expected CAT and DOG to be present")
	}
	if d.Contains("c4t") {
		t.Fatal("malformed entry should not be present")
	}
}

func TestNewEmptyDictionary(t *testing.T) {
	// Only empty strings and symbols: nothing usable remains.
	_, err := New([]string{"", "123", "!!", "a b"})
	if !errors.Is(err, ErrEmptyDictionary) {
		t.Fatalf("got %v, want ErrEmptyDictionary", err)
	}
}

func TestCandidatesUnconstrained(t *testing.T) {
	d, err := New([]string{"cat", "dog", "tip", "at", "no"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got := d.Candidates(3, nil)
	want := []string{"CAT", "DOG", "TIP"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v (insertion order)", got, want)
	}
	if d.Candidates(7, nil) != nil {
		t.Fatal("expected no candidates for an absent length")
	}
}

func TestCandidatesFixedPositions(t *testing.T) {
	d, err := New([]string{"cat", "cot", "dog", "cut", "car"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got := d.Candidates(3, map[int]byte{0: 'C', 2: 'T'})
	want := []string{"CAT", "COT", "CUT"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := d.Candidates(3, map[int]byte{1: 'Z'}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestCandidatesReturnsFreshSlice(t *testing.T) {
	d, err := New([]string{"cat", "dog"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first := d.Candidates(3, nil)
	first[0] = "XXX"
	second := d.Candidates(3, nil)
	if second[0] != "CAT" {
		t.Fatal("a caller mutating the result corrupted the index")
	}
}

func TestRankedOrder(t *testing.T) {
	d, err := NewRanked([]Entry{
		{Word: "rare", Rank: 1},
		{Word: "tied", Rank: 5},
		{Word: "ties", Rank: 5},
		{Word: "main", Rank: 9},
	})
	if err != nil {
		t.Fatalf("NewRanked failed: %v", err)
	}
	got := d.Candidates(4, nil)
	want := []string{"MAIN", "TIED", "TIES", "RARE"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v (rank desc, ties stable)", got, want)
	}
}

func TestParseWordList(t *testing.T) {
	in := "# comment\ncat\n\ndog\n"
	entries, err := ParseWordList(strings.NewReader(in), false)
	if err != nil {
		t.Fatalf("ParseWordList failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Word != "cat" || entries[1].Word != "dog" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestParseWordListRanked(t *testing.T) {
	in := "cat\t10\ndog;3\nbare\n"
	entries, err := ParseWordList(strings.NewReader(in), true)
	if err != nil {
		t.Fatalf("ParseWordList failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Rank != 10 || entries[1].Rank != 3 {
		t.Fatalf("ranks not parsed: %+v", entries)
	}
	// No rank column: keep the word, rank zero.
	if entries[2].Word != "bare" || entries[2].Rank != 0 {
		t.Fatalf("unranked line mishandled: %+v", entries[2])
	}
}
