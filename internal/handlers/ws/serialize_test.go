package ws

import (
	"encoding/json"
	"testing"
)

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		shouldErr bool
		checkFn   func(Message) bool
	}{
		{
			name: "Send message intent",
			raw:  `{"type":"message:send","payload":{"to_user_id":2,"body":"hello"}}`,
			checkFn: func(m Message) bool {
				send, ok := m.(*MessageSend)
				return ok && send.ToUserID == 2 && send.Body == "hello"
			},
		},
		{
			name: "Typing start intent",
			raw:  `{"type":"typing:start","payload":{"to_user_id":3}}`,
			checkFn: func(m Message) bool {
				start, ok := m.(*MessageTypingStart)
				return ok && start.ToUserID == 3
			},
		},
		{
			name: "Mark read intent",
			raw:  `{"type":"messages:markAsRead","payload":{"conversation_with":4}}`,
			checkFn: func(m Message) bool {
				read, ok := m.(*MessageMarkRead)
				return ok && read.ConversationWith == 4
			},
		},
		{
			name: "Ping without payload",
			raw:  `{"type":"ping"}`,
			checkFn: func(m Message) bool {
				_, ok := m.(*MessagePing)
				return ok
			},
		},
		{
			name:      "Unknown type",
			raw:       `{"type":"message:selfdestruct","payload":{}}`,
			shouldErr: true,
		},
		{
			name:      "Malformed payload",
			raw:       `{"type":"message:send","payload":"not-an-object"}`,
			shouldErr: true,
		},
		{
			name:      "Not json at all",
			raw:       `hello`,
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Deserialize([]byte(tt.raw))
			if (err != nil) != tt.shouldErr {
				t.Fatalf("Deserialize error = %v, wantErr %v", err, tt.shouldErr)
			}
			if !tt.shouldErr && tt.checkFn != nil && !tt.checkFn(msg) {
				t.Errorf("Deserialize result does not match expected condition")
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	original := &MessageSend{ToUserID: 7, Body: "round trip"}

	data, err := Serialize(original)
	if err != nil {
		t.Fatalf("Serialize error = %v", err)
	}

	decoded, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize error = %v", err)
	}

	send, ok := decoded.(*MessageSend)
	if !ok {
		t.Fatalf("Deserialize returned %T, want *MessageSend", decoded)
	}
	if send.ToUserID != original.ToUserID || send.Body != original.Body {
		t.Errorf("round trip = %+v, want %+v", send, original)
	}
}

func TestTypeRegistryCoversAllIntents(t *testing.T) {
	registry := GetTypeRegistry()

	expected := []string{
		"message:send",
		"typing:start",
		"typing:stop",
		"messages:markAsRead",
		"ping",
		"pong",
	}

	for _, msgType := range expected {
		if _, ok := registry[msgType]; !ok {
			t.Errorf("type registry missing %q", msgType)
		}
	}
}

func TestEventEnvelope(t *testing.T) {
	event := UnreadCountsEvent(nil)

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			UnreadCounts []json.RawMessage `json:"unread_counts"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if decoded.Type != EventUnreadCounts {
		t.Errorf("event type = %q, want %q", decoded.Type, EventUnreadCounts)
	}
	// Nil entries must serialize as an empty array, never null.
	if decoded.Payload.UnreadCounts == nil {
		t.Errorf("unread_counts serialized as null, want []")
	}
}
