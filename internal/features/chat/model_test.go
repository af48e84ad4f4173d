package chat

import "testing"

func TestRoomName(t *testing.T) {
	if got := RoomName("abc123"); got != "complaint_abc123" {
		t.Errorf("RoomName() = %q", got)
	}
}

func TestConversationIDStable(t *testing.T) {
	first := ConversationID("abc123")
	second := ConversationID("abc123")
	if first != second {
		t.Errorf("same complaint must map to the same conversation: %q vs %q", first, second)
	}
	if other := ConversationID("def456"); other == first {
		t.Error("different complaints must map to different conversations")
	}
	if len(first) != 36 {
		t.Errorf("conversation id %q is not a uuid", first)
	}
}
