package storage

import (
	"errors"
	"testing"

	"revmeter/internal/model"
)

func TestCodecRoundtrip(t *testing.T) {
	run := model.RunRecord{
		VersionedRecord: Stamp(),
		ID:              "run-enc",
		Layout:          "dvs",
	}
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != run.ID || got.Layout != run.Layout {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestCodecVersionMismatch(t *testing.T) {
	run := model.RunRecord{ID: "run-bad"} // zero versions
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}

	series := model.EstimateSeries{RunID: "run-bad"}
	data, err = EncodeEstimates(series)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeEstimates(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestNewStoreEmptyKindUsesDefault(t *testing.T) {
	store, err := NewStore("", "default.db")
	if err != nil {
		t.Fatalf("new default store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}
