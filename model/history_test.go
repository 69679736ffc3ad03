package model

import (
	"fmt"
	"testing"
)

func TestHistoryAppendAddsPairInOrder(t *testing.T) {
	h := NewHistory(0)

	h.Append("How far did I run?", "You ran 10 km.")

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	turns := h.Turns()
	if turns[0].Role != RoleUser || turns[0].Content != "How far did I run?" {
		t.Errorf("first turn = %+v, want user message", turns[0])
	}
	if turns[1].Role != RoleAssistant || turns[1].Content != "You ran 10 km." {
		t.Errorf("second turn = %+v, want assistant reply", turns[1])
	}
	if !turns[0].IsUser() || turns[1].IsUser() {
		t.Error("IsUser() does not match roles")
	}
}

func TestHistoryRecent(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 7; i++ {
		h.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	tests := []struct {
		name      string
		n         int
		wantLen   int
		wantFirst string
	}{
		{"window of ten", 10, 10, "q2"},
		{"larger than history", 50, 14, "q0"},
		{"zero", 0, 0, ""},
		{"negative", -3, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Recent(tt.n)
			if len(got) != tt.wantLen {
				t.Fatalf("Recent(%d) returned %d turns, want %d", tt.n, len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Content != tt.wantFirst {
				t.Errorf("Recent(%d)[0] = %q, want %q", tt.n, got[0].Content, tt.wantFirst)
			}
		})
	}

	if h.Len() != 14 {
		t.Errorf("Recent must not modify history, Len() = %d", h.Len())
	}
}

func TestHistoryRecentReturnsCopy(t *testing.T) {
	h := NewHistory(0)
	h.Append("hello", "hi")

	got := h.Recent(2)
	got[0].Content = "changed"

	if h.Turns()[0].Content != "hello" {
		t.Error("mutating Recent() result changed the stored history")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(0)
	h.Append("a", "b")
	h.Append("c", "d")
	id := h.ID()

	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", h.Len())
	}
	if h.ID() == id {
		t.Error("Clear() should start a new conversation id")
	}

	// Clearing an empty history is fine.
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len() after second Clear = %d, want 0", h.Len())
	}
}

func TestHistoryLimitDropsWholePairs(t *testing.T) {
	h := NewHistory(2)
	for i := 0; i < 5; i++ {
		h.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	turns := h.Turns()
	if len(turns) != 4 {
		t.Fatalf("len = %d, want 4", len(turns))
	}
	want := []string{"q3", "a3", "q4", "a4"}
	for i, w := range want {
		if turns[i].Content != w {
			t.Errorf("turn %d = %q, want %q", i, turns[i].Content, w)
		}
		wantRole := RoleUser
		if i%2 == 1 {
			wantRole = RoleAssistant
		}
		if turns[i].Role != wantRole {
			t.Errorf("turn %d role = %s, want %s", i, turns[i].Role, wantRole)
		}
	}
}
