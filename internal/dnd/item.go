package dnd

import (
	"encoding/json"
	"errors"
	"strings"

	"deskplan/internal/model"
)

var ErrMalformedPayload = errors.New("could not process the dropped item")

// Item is the typed, serializable drag payload: an entity snapshot plus the
// closed kind tag drop zones filter on. Exactly one Item is live at a time.
type Item struct {
	ID   string           `json:"id"`
	Kind model.EntityKind `json:"type"`
	// Source identifies the originating container (list row, calendar cell).
	Source string `json:"sourceContainerId,omitempty"`
	// Payload is the entity snapshot, opaque to the coordinator.
	Payload json.RawMessage `json:"data,omitempty"`
	// DirectDrop marks that a receiving zone may create an assignment
	// immediately, without opening a dialog first.
	DirectDrop bool `json:"directDrop,omitempty"`
}

// NewItem builds a drag item, marshaling the entity snapshot.
func NewItem(id string, kind model.EntityKind, snapshot any) (Item, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return Item{}, err
	}
	return Item{ID: strings.TrimSpace(id), Kind: kind, Payload: raw}, nil
}

// Decode unmarshals the entity snapshot into v.
func (it Item) Decode(v any) error {
	if len(it.Payload) == 0 {
		return ErrMalformedPayload
	}
	return json.Unmarshal(it.Payload, v)
}

// Transfer is the serialized payload crossing the gesture boundary. JSON is
// the primary structured channel; Text is the plain-identifier fallback for
// channels that cannot carry structured records.
type Transfer struct {
	JSON string
	Text string
}

// EncodeTransfer serializes an item for the gesture boundary. The id/kind/
// data fields round-trip losslessly through the JSON channel.
func EncodeTransfer(it Item) (Transfer, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{JSON: string(b), Text: it.ID}, nil
}

// DecodeTransfer recovers an item from the structured channel. An empty
// channel is reported as ok=false (caller falls back to the coordinator's
// live item); non-empty but unparseable input is ErrMalformedPayload.
func DecodeTransfer(tr Transfer) (Item, bool, error) {
	s := strings.TrimSpace(tr.JSON)
	if s == "" {
		return Item{}, false, nil
	}
	var it Item
	if err := json.Unmarshal([]byte(s), &it); err != nil {
		return Item{}, false, ErrMalformedPayload
	}
	if strings.TrimSpace(it.ID) == "" || it.Kind == "" {
		return Item{}, false, ErrMalformedPayload
	}
	return it, true, nil
}
