package dnd

import (
	"testing"

	"deskplan/internal/model"
)

func TestTransferRoundTrip(t *testing.T) {
	type snapshot struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	it, err := NewItem("emp-7", model.KindEmployee, snapshot{ID: "emp-7", Name: "Dana"})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	it.Source = "employees-list"

	tr, err := EncodeTransfer(it)
	if err != nil {
		t.Fatalf("EncodeTransfer: %v", err)
	}
	if tr.Text != "emp-7" {
		t.Fatalf("plain fallback must carry the id; got %q", tr.Text)
	}

	got, ok, err := DecodeTransfer(tr)
	if err != nil || !ok {
		t.Fatalf("DecodeTransfer: ok=%v err=%v", ok, err)
	}
	if got.ID != it.ID || got.Kind != it.Kind || got.Source != it.Source {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, it)
	}
	var snap snapshot
	if err := got.Decode(&snap); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap != (snapshot{ID: "emp-7", Name: "Dana"}) {
		t.Fatalf("data did not survive round trip: %+v", snap)
	}
}

func TestDecodeTransferEmptyChannel(t *testing.T) {
	_, ok, err := DecodeTransfer(Transfer{Text: "task-1"})
	if err != nil {
		t.Fatalf("empty channel is not an error: %v", err)
	}
	if ok {
		t.Fatalf("empty channel must report ok=false")
	}
}

func TestDecodeTransferMalformed(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":""}`, `{"type":"task"}`} {
		if _, _, err := DecodeTransfer(Transfer{JSON: raw}); err != ErrMalformedPayload {
			t.Fatalf("input %q: expected ErrMalformedPayload; got %v", raw, err)
		}
	}
}
