package favorites

import "testing"

func TestSet_Toggle(t *testing.T) {
	s := New()
	if !s.Toggle("1") {
		t.Error("Toggle() = false on first add")
	}
	if !s.Contains("1") {
		t.Error("Contains() = false after add")
	}
	if s.Toggle("1") {
		t.Error("Toggle() = true on removal")
	}
	if s.Contains("1") || s.Len() != 0 {
		t.Error("Toggle() twice should leave the set unchanged")
	}
}

func TestSet_AllSorted(t *testing.T) {
	s := New("b", "a", "c", "a")
	got := s.All()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSet_Reset(t *testing.T) {
	s := New("a", "b")
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Reset()", s.Len())
	}
	if len(s.All()) != 0 {
		t.Error("All() should be empty after Reset()")
	}
}
