// internal/dict/dict.go
//
// Dictionary index for pattern-constrained lookups.
//
// Responsibilities:
//   - Normalize raw entries (uppercase, ASCII letters only); malformed
//     entries are dropped, duplicates keep their first occurrence.
//   - Partition words by length, then index each length bucket by
//     (position, letter) → word IDs so a query with k fixed positions is
//     answered from the smallest of ≤k posting lists.
//   - Preserve a deterministic candidate order: rank descending for ranked
//     dictionaries, otherwise insertion order.
//
// The index is built once at load time and never mutated; the solver queries
// it at every search node, so lookups must not allocate per-index state.

package dict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptyDictionary is returned when no usable words survive normalization.
var ErrEmptyDictionary = errors.New("dictionary has no usable words")

// Entry is one raw dictionary entry. Rank orders candidates (higher first);
// unranked sources leave it zero.
type Entry struct {
	Word string
	Rank int
}

type posLetter struct {
	pos    int
	letter byte
}

// bucket holds all words of one length, in candidate order.
type bucket struct {
	ids      []int // word IDs, candidate order
	postings map[posLetter][]int
}

// Dictionary is the immutable word index.
type Dictionary struct {
	words   []string // ID → word
	byLen   map[int]*bucket
	present map[string]struct{}
}

// New builds a dictionary from raw words in insertion order.
func New(words []string) (*Dictionary, error) {
	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = Entry{Word: w}
	}
	return NewRanked(entries)
}

// NewRanked builds a dictionary whose candidate order is rank descending,
// ties kept in insertion order.
func NewRanked(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{
		byLen:   make(map[int]*bucket),
		present: make(map[string]struct{}),
	}

	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		w, ok := Normalize(e.Word)
		if !ok {
			continue
		}
		if _, dup := d.present[w]; dup {
			continue
		}
		d.present[w] = struct{}{}
		kept = append(kept, Entry{Word: w, Rank: e.Rank})
	}
	if len(kept) == 0 {
		return nil, ErrEmptyDictionary
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Rank > kept[j].Rank })

	for _, e := range kept {
		id := len(d.words)
		d.words = append(d.words, e.Word)
		b := d.byLen[len(e.Word)]
		if b == nil {
			b = &bucket{postings: make(map[posLetter][]int)}
			d.byLen[len(e.Word)] = b
		}
		b.ids = append(b.ids, id)
		for i := 0; i < len(e.Word); i++ {
			k := posLetter{pos: i, letter: e.Word[i]}
			b.postings[k] = append(b.postings[k], id)
		}
	}
	return d, nil
}

// Normalize uppercases a raw entry and reports whether it is usable:
// non-empty and ASCII letters only.
func Normalize(raw string) (string, bool) {
	w := strings.ToUpper(strings.TrimSpace(raw))
	if w == "" {
		return "", false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return "", false
		}
	}
	return w, true
}

// Candidates returns, in candidate order, every word of the given length
// whose letters agree with fixed (position → letter). With no fixed
// positions this is the whole length bucket. The returned slice is freshly
// allocated and safe for the caller to filter in place.
func (d *Dictionary) Candidates(length int, fixed map[int]byte) []string {
	b := d.byLen[length]
	if b == nil {
		return nil
	}
	if len(fixed) == 0 {
		out := make([]string, len(b.ids))
		for i, id := range b.ids {
			out[i] = d.words[id]
		}
		return out
	}

	// Scan the smallest posting list; verify the rest per word. Posting
	// lists are in candidate order, so the result is too.
	base := b.ids
	for pos, letter := range fixed {
		p := b.postings[posLetter{pos: pos, letter: letter}]
		if len(p) < len(base) {
			base = p
		}
	}
	var out []string
	for _, id := range base {
		w := d.words[id]
		ok := true
		for pos, letter := range fixed {
			if w[pos] != letter {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, w)
		}
	}
	return out
}

// Contains reports whether the normalized form of w is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	n, ok := Normalize(w)
	if !ok {
		return false
	}
	_, ok = d.present[n]
	return ok
}

// Len returns the total number of indexed words.
func (d *Dictionary) Len() int { return len(d.words) }

// Lengths returns the distinct word lengths present, ascending.
func (d *Dictionary) Lengths() []int {
	out := make([]int, 0, len(d.byLen))
	for n := range d.byLen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// ParseWordList reads one entry per line. With ranked set, each line is
// "word<TAB>rank" or "word;rank"; a missing or malformed rank leaves it
// zero rather than rejecting the line. Lines starting with '#' are skipped.
func ParseWordList(r io.Reader, ranked bool) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e := Entry{Word: line}
		if ranked {
			word, rank, found := cutRank(line)
			if found {
				e = Entry{Word: word, Rank: rank}
			} else {
				e = Entry{Word: word}
			}
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return out, nil
}

// cutRank splits "word<TAB>rank" or "word;rank". found is false when there
// is no usable rank column.
func cutRank(line string) (word string, rank int, found bool) {
	sep := "\t"
	if !strings.Contains(line, sep) {
		sep = ";"
	}
	word, rest, ok := strings.Cut(line, sep)
	if !ok {
		return line, 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return word, 0, false
	}
	return word, n, true
}
