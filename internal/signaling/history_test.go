package signaling

import (
	"fmt"
	"testing"
)

func TestChatHistory_OrderPreserved(t *testing.T) {
	h := NewChatHistory()
	for i := 0; i < 3; i++ {
		h.Append("r1", ChatMessage{ID: fmt.Sprintf("m%d", i), Message: fmt.Sprintf("msg %d", i)})
	}
	got := h.Get("r1")
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, msg := range got {
		if msg.ID != fmt.Sprintf("m%d", i) {
			t.Fatalf("order broken at %d: %+v", i, got)
		}
	}
}

func TestChatHistory_FIFOEvictionAtCap(t *testing.T) {
	h := NewChatHistory()
	for i := 0; i < MaxChatHistory+1; i++ {
		h.Append("r1", ChatMessage{ID: fmt.Sprintf("m%d", i)})
	}
	got := h.Get("r1")
	if len(got) != MaxChatHistory {
		t.Fatalf("expected %d retained, got %d", MaxChatHistory, len(got))
	}
	if got[0].ID != "m1" {
		t.Fatalf("oldest message should be evicted first, head is %s", got[0].ID)
	}
	if got[len(got)-1].ID != fmt.Sprintf("m%d", MaxChatHistory) {
		t.Fatalf("newest message missing, tail is %s", got[len(got)-1].ID)
	}
}

func TestChatHistory_RoomsIndependent(t *testing.T) {
	h := NewChatHistory()
	h.Append("r1", ChatMessage{ID: "m1"})
	if len(h.Get("r2")) != 0 {
		t.Fatalf("rooms should be isolated")
	}
	h.Delete("r1")
	if len(h.Get("r1")) != 0 {
		t.Fatalf("delete should clear the log")
	}
}

func TestChatHistory_GetReturnsCopy(t *testing.T) {
	h := NewChatHistory()
	h.Append("r1", ChatMessage{ID: "m1"})
	got := h.Get("r1")
	got[0].ID = "mutated"
	if h.Get("r1")[0].ID != "m1" {
		t.Fatalf("Get must return a copy")
	}
}
