package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/poker"
)

// Server message types
const (
	MessageState = "STATE"
	MessageEvent = "EVENT"
	MessageError = "ERROR"
)

// ClientMessage is the single client-to-server message: one move
type ClientMessage struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// ParseClientMessage decodes and validates a MOVE message
func ParseClientMessage(data []byte) (game.Action, int, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return 0, 0, fmt.Errorf("malformed message: %w", err)
	}
	if msg.Type != "MOVE" {
		return 0, 0, fmt.Errorf("unsupported message type %q", msg.Type)
	}
	action, err := game.ParseAction(msg.Action)
	if err != nil {
		return 0, 0, err
	}
	if action == game.Raise && msg.Amount <= 0 {
		return 0, 0, errors.New("raise requires a positive amount")
	}
	if action != game.Raise && msg.Amount != 0 {
		return 0, 0, errors.New("amount is only valid for raise")
	}
	return action, msg.Amount, nil
}

// ServerMessage is the envelope for all server-to-client traffic
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ErrorPayload is a machine-readable rejection
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventPayload carries one game event on the wire
type EventPayload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// NewStateMessage wraps a viewer snapshot
func NewStateMessage(state game.PublicState) ServerMessage {
	return ServerMessage{Type: MessageState, Payload: state}
}

// NewErrorMessage maps an engine error to the wire. Validation errors keep
// their code; anything else is reported as an internal error.
func NewErrorMessage(err error) ServerMessage {
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		return ServerMessage{Type: MessageError, Payload: ErrorPayload{Code: verr.Code, Message: verr.Message}}
	}
	var serr *game.SetupError
	if errors.As(err, &serr) {
		return ServerMessage{Type: MessageError, Payload: ErrorPayload{Code: "setup_error", Message: serr.Message}}
	}
	return ServerMessage{Type: MessageError, Payload: ErrorPayload{Code: "internal_error", Message: err.Error()}}
}

// NewEventMessage flattens a typed game event into its wire shape
func NewEventMessage(ev game.Event) ServerMessage {
	payload := EventPayload{Event: string(ev.EventType())}

	switch e := ev.(type) {
	case game.DealEvent:
		payload.Data = map[string]any{
			"street": e.Street.String(),
			"cards":  poker.CardStrings(e.Cards),
		}
	case game.ShowdownEvent:
		results := make([]map[string]any, len(e.Results))
		for i, r := range e.Results {
			results[i] = map[string]any{
				"player_id":     r.Seat,
				"hole_cards":    poker.CardStrings(r.Hole),
				"rank":          int(r.Rank),
				"hand_category": r.Category,
			}
		}
		payload.Data = map[string]any{"results": results}
	case game.HandEndEvent:
		payload.Data = map[string]any{
			"winners":       e.Winners,
			"payouts":       e.Payouts,
			"pot":           e.Pot,
			"hand_category": e.Category,
			"fold_win":      e.FoldWin,
		}
	case game.NewHandEvent:
		payload.Data = map[string]any{
			"hand_num":    e.HandNum,
			"seats":       e.Seats,
			"button":      e.Button,
			"small_blind": e.SmallBlind,
			"big_blind":   e.BigBlind,
		}
	case game.TableEndEvent:
		payload.Data = map[string]any{"winners": e.Winners}
	}

	return ServerMessage{Type: MessageEvent, Payload: payload}
}
