package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardstream/holdem/internal/game"
)

func TestParseClientMessage(t *testing.T) {
	t.Parallel()
	action, amount, err := ParseClientMessage([]byte(`{"type":"MOVE","action":"raise","amount":40}`))
	require.NoError(t, err)
	assert.Equal(t, game.Raise, action)
	assert.Equal(t, 40, amount)

	action, amount, err = ParseClientMessage([]byte(`{"type":"MOVE","action":"fold"}`))
	require.NoError(t, err)
	assert.Equal(t, game.Fold, action)
	assert.Equal(t, 0, amount)
}

func TestParseClientMessageRejections(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
	}{
		{"garbage", `not json`},
		{"wrong type", `{"type":"PING"}`},
		{"unknown action", `{"type":"MOVE","action":"allin"}`},
		{"raise without amount", `{"type":"MOVE","action":"raise"}`},
		{"negative raise", `{"type":"MOVE","action":"raise","amount":-5}`},
		{"amount on call", `{"type":"MOVE","action":"call","amount":10}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseClientMessage([]byte(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestErrorMessageKeepsValidationCode(t *testing.T) {
	t.Parallel()
	verr := &game.ValidationError{Code: "raise_too_small", Message: "raise-to 15 below minimum 20"}

	msg := NewErrorMessage(verr)
	assert.Equal(t, MessageError, msg.Type)

	payload, ok := msg.Payload.(ErrorPayload)
	require.True(t, ok)
	assert.Equal(t, "raise_too_small", payload.Code)
}

func TestErrorMessageInternalFallback(t *testing.T) {
	t.Parallel()
	msg := NewErrorMessage(assert.AnError)
	payload := msg.Payload.(ErrorPayload)
	assert.Equal(t, "internal_error", payload.Code)
}

func TestEventMessageHandEnd(t *testing.T) {
	t.Parallel()
	msg := NewEventMessage(game.HandEndEvent{
		Winners:  []string{"p2"},
		Payouts:  map[string]int{"p2": 30},
		Pot:      30,
		Category: "Two Pair",
	})

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			Event string         `json:"event"`
			Data  map[string]any `json:"data"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, MessageEvent, decoded.Type)
	assert.Equal(t, "HAND_END", decoded.Payload.Event)
	assert.Equal(t, "Two Pair", decoded.Payload.Data["hand_category"])
	assert.Equal(t, float64(30), decoded.Payload.Data["pot"])
	assert.Equal(t, false, decoded.Payload.Data["fold_win"])
}

func TestEventMessageDealCarriesCardStrings(t *testing.T) {
	t.Parallel()
	// An empty hole-card deal keeps private cards off the shared stream.
	msg := NewEventMessage(game.DealEvent{Street: game.Preflop})
	payload := msg.Payload.(EventPayload)
	assert.Equal(t, "DEAL_HOLE", payload.Event)
	assert.Empty(t, payload.Data["cards"])
}

func TestStateMessageSerializesWireNames(t *testing.T) {
	t.Parallel()
	toCall := 10
	msg := NewStateMessage(game.PublicState{
		Street: "preflop",
		Pot:    15,
		ToCall: &toCall,
	})

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "STATE", decoded["type"])

	payload := decoded["payload"].(map[string]any)
	assert.Equal(t, "preflop", payload["street"])
	assert.Equal(t, float64(15), payload["pot"])
	assert.Equal(t, float64(10), payload["to_call"])
}
