package vocab

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// letterBuilder adds letter k (1-indexed) k times, in alphabet order.
func letterBuilder(opts ...Option) *Builder {
	b := NewBuilder(opts...)
	for i := range 26 {
		w := string(rune('a' + i))
		for range i + 1 {
			b.Add(w)
		}
	}
	return b
}

func sumRange(lo, hi int64) int64 {
	var s int64
	for i := lo; i <= hi; i++ {
		s += i
	}
	return s
}

// --- Builder ---

func TestBuilder_AddAssignsFirstSeenIDs(t *testing.T) {
	b := NewBuilder()
	for _, w := range []string{"to", "be", "or", "not", "to", "be"} {
		b.Add(w)
	}

	if b.Len() != 4 {
		t.Fatalf("Len() = %d; want 4", b.Len())
	}

	for want, w := range []string{"to", "be", "or", "not"} {
		id, ok := b.ID(w)
		if !ok || id != want {
			t.Errorf("ID(%q) = %d, %v; want %d, true", w, id, ok, want)
		}
	}

	if got := b.Freq("to"); got != 2 {
		t.Errorf("Freq(to) = %d; want 2", got)
	}

	if got := b.Freq("missing"); got != 0 {
		t.Errorf("Freq(missing) = %d; want 0", got)
	}
}

func TestBuilder_FinalizeTwice(t *testing.T) {
	b := letterBuilder()
	if _, err := b.Finalize(1); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}

	_, err := b.Finalize(1)
	if !errors.Is(err, ErrFinalized) {
		t.Fatalf("second Finalize error = %v; want ErrFinalized", err)
	}

	b.Add("late")
	if b.Len() != 0 {
		t.Errorf("Add after Finalize changed builder: Len() = %d", b.Len())
	}
}

// --- Finalize ---

func TestFinalize_DropsLowFrequencyWords(t *testing.T) {
	v, err := letterBuilder().Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if v.Len() != 22 {
		t.Fatalf("Len() = %d; want 22", v.Len())
	}

	if v.Word(0) != "z" || v.Freq(0) != 26 {
		t.Errorf("id 0 = %q/%d; want z/26", v.Word(0), v.Freq(0))
	}

	if v.Word(v.Len()-1) != "e" {
		t.Errorf("last word = %q; want e", v.Word(v.Len()-1))
	}

	if v.Total() != sumRange(5, 26) {
		t.Errorf("Total() = %d; want %d", v.Total(), sumRange(5, 26))
	}

	for _, w := range []string{"a", "b", "c", "d"} {
		if _, ok := v.ID(w); ok {
			t.Errorf("pruned word %q still has an id", w)
		}
	}

	if _, ok := v.MarkerID(); ok {
		t.Error("MarkerID() reported a marker with replacement disabled")
	}
}

func TestFinalize_FoldsLowFrequencyWordsIntoMarker(t *testing.T) {
	v, err := letterBuilder(WithReplacement("<UNK>")).Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if v.Len() != 23 {
		t.Fatalf("Len() = %d; want 23", v.Len())
	}

	last := v.Len() - 1
	if v.Word(last) != "<UNK>" {
		t.Errorf("last word = %q; want <UNK>", v.Word(last))
	}

	if v.Freq(last) != 1+2+3+4 {
		t.Errorf("marker freq = %d; want 10", v.Freq(last))
	}

	if v.Total() != sumRange(1, 26) {
		t.Errorf("Total() = %d; want %d", v.Total(), sumRange(1, 26))
	}

	id, ok := v.MarkerID()
	if !ok || id != last {
		t.Errorf("MarkerID() = %d, %v; want %d, true", id, ok, last)
	}
}

func TestFinalize_MinCountOneKeepsEverything(t *testing.T) {
	for _, opts := range [][]Option{nil, {WithReplacement("")}} {
		v, err := letterBuilder(opts...).Finalize(1)
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}

		if v.Len() != 26 {
			t.Fatalf("Len() = %d; want 26", v.Len())
		}

		if v.Word(25) != "a" {
			t.Errorf("last word = %q; want a", v.Word(25))
		}

		if _, ok := v.ID(DefaultReplaceWord); ok {
			t.Error("marker added although nothing fell below min count")
		}
	}
}

func TestFinalize_ClampsMinCount(t *testing.T) {
	v, err := letterBuilder().Finalize(-3)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if v.Len() != 26 {
		t.Errorf("Len() = %d; want 26", v.Len())
	}
}

func TestFinalize_StableOnTies(t *testing.T) {
	b := NewBuilder()
	for _, w := range []string{"c", "a", "b", "a", "c", "b", "d"} {
		b.Add(w)
	}

	v, err := b.Finalize(1)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	want := []string{"c", "a", "b", "d"}
	if got := v.Words(); !slices.Equal(got, want) {
		t.Errorf("Words() = %q; want %q", got, want)
	}
}

func TestFinalize_OrderingAndRoundTrip(t *testing.T) {
	v, err := letterBuilder(WithReplacement("<unk>")).Finalize(7)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	freqs := v.Freqs()
	for i := 1; i < len(freqs)-1; i++ {
		if freqs[i] > freqs[i-1] {
			t.Errorf("freqs[%d]=%d > freqs[%d]=%d", i, freqs[i], i-1, freqs[i-1])
		}
	}

	for id, w := range v.Words() {
		got, ok := v.ID(w)
		if !ok || got != id {
			t.Errorf("ID(Word(%d)) = %d, %v", id, got, ok)
		}
	}

	if err := v.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestFinalize_MarkerCollision(t *testing.T) {
	b := letterBuilder(WithReplacement("<unk>"))
	b.Add("<unk>")

	_, err := b.Finalize(5)
	if !errors.Is(err, ErrMarkerCollision) {
		t.Fatalf("Finalize error = %v; want ErrMarkerCollision", err)
	}

	if !strings.Contains(err.Error(), "does not occur in the corpus") {
		t.Errorf("error %q gives no hint about choosing another word", err)
	}
}

func TestFinalize_MarkerWordWithoutPruning(t *testing.T) {
	b := letterBuilder(WithReplacement("<unk>"))
	b.Add("<unk>")

	v, err := b.Finalize(1)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if v.Len() != 27 {
		t.Errorf("Len() = %d; want 27", v.Len())
	}
}

func TestFinalize_EmptyBuilder(t *testing.T) {
	v, err := NewBuilder(WithReplacement("")).Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if v.Len() != 0 || v.Total() != 0 {
		t.Errorf("empty vocab: Len()=%d Total()=%d", v.Len(), v.Total())
	}
}

// --- NewBuilderFrom ---

func TestNewBuilderFrom_CarriesMarkerCount(t *testing.T) {
	first, err := letterBuilder(WithReplacement("<unk>")).Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	b := NewBuilderFrom(first, WithReplacement("<unk>"))
	if b.Len() != 22 {
		t.Fatalf("seeded Len() = %d; want 22", b.Len())
	}

	b.Add("z")

	second, err := b.Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if second.Freq(0) != 27 {
		t.Errorf("z freq = %d; want 27", second.Freq(0))
	}

	id, ok := second.MarkerID()
	if !ok || second.Freq(id) != 10 {
		t.Errorf("marker freq = %d (ok=%v); want 10", second.Freq(id), ok)
	}

	if second.Total() != first.Total()+1 {
		t.Errorf("Total() = %d; want %d", second.Total(), first.Total()+1)
	}
}

// --- Entries ---

func TestEntries(t *testing.T) {
	v, err := letterBuilder().Finalize(1)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	top := v.Entries(3)
	want := []Entry{{0, "z", 26}, {1, "y", 25}, {2, "x", 24}}
	if !slices.Equal(top, want) {
		t.Errorf("Entries(3) = %v; want %v", top, want)
	}

	if got := len(v.Entries(0)); got != 26 {
		t.Errorf("len(Entries(0)) = %d; want 26", got)
	}

	if got := len(v.Entries(100)); got != 26 {
		t.Errorf("len(Entries(100)) = %d; want 26", got)
	}
}
