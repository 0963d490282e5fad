package event

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"revmeter/internal/model"
)

func TestDecodeBatchDVSRoundtrip(t *testing.T) {
	want := []model.Event{
		{T: 100, X: 4, Y: 8, On: true},
		{T: 250, X: 640, Y: 360, On: false},
		{T: 250, X: 1279, Y: 719, On: true},
	}

	got, err := DecodeBatch("dvs", EncodeBatch(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("decoded %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeBatchShapeError(t *testing.T) {
	data := EncodeBatch([]model.Event{{T: 1}})
	_, err := DecodeBatch("dvs", data[:len(data)-1])
	if !errors.Is(err, ErrBatchShape) {
		t.Fatalf("expected ErrBatchShape, got %v", err)
	}
}

func TestDecodeBatchUnknownLayout(t *testing.T) {
	_, err := DecodeBatch("aedat-imu", nil)
	if !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestDecodeBatchDATPolarityBit(t *testing.T) {
	// dat records carry polarity in payload bit 0.
	record := make([]byte, 13)
	record[0] = 42 // t = 42
	record[12] = 0b1110
	events, err := DecodeBatch("dat", record)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 || events[0].On {
		t.Fatalf("payload 0b1110 should decode as off: %+v", events)
	}
}

func TestDecodeBatchATISSkipsExposure(t *testing.T) {
	data := make([]byte, 28)
	// First record: exposure measurement, skipped.
	data[12] = 1
	// Second record: polarity event, on.
	data[14+0] = 7 // t = 7
	data[14+13] = 1
	events, err := DecodeBatch("es-atis", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected exposure record skipped, got %d events", len(events))
	}
	if events[0].T != 7 || !events[0].On {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestReadFile(t *testing.T) {
	want := []model.Event{
		{T: 10, X: 1, Y: 2, On: true},
		{T: 20, X: 3, Y: 4, On: false},
	}
	path := filepath.Join(t.TempDir(), "events.raw")
	if err := os.WriteFile(path, EncodeBatch(want), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadFile(path, "dvs")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected events: %+v", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.raw"), "dvs"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
