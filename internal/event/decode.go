package event

import (
	"encoding/binary"
	"fmt"
	"os"

	"revmeter/internal/model"
)

// DecodeBatch converts a packed little-endian recording into canonical
// events. The batch must be a whole number of records for the named layout.
// Exposure records in es-atis recordings carry no brightness change and are
// skipped.
func DecodeBatch(layoutName string, data []byte) ([]model.Event, error) {
	layout, ok := Lookup(layoutName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layoutName)
	}
	size := layout.RecordSize()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes, record size %d", ErrBatchShape, len(data), size)
	}

	count := len(data) / size
	events := make([]model.Event, 0, count)
	for i := 0; i < count; i++ {
		record := data[i*size : (i+1)*size]
		t := binary.LittleEndian.Uint64(record[0:8])
		x := binary.LittleEndian.Uint16(record[8:10])
		y := binary.LittleEndian.Uint16(record[10:12])

		switch layout.Name {
		case "dvs":
			events = append(events, model.Event{T: t, X: x, Y: y, On: record[12] != 0})
		case "dat":
			events = append(events, model.Event{T: t, X: x, Y: y, On: record[12]&1 != 0})
		case "es-atis":
			if record[12] != 0 {
				continue
			}
			events = append(events, model.Event{T: t, X: x, Y: y, On: record[13] != 0})
		default:
			return nil, fmt.Errorf("%w: %q has no decoder", ErrUnknownLayout, layout.Name)
		}
	}
	return events, nil
}

// ReadFile loads a raw recording from disk and decodes it.
func ReadFile(path, layoutName string) ([]model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	events, err := DecodeBatch(layoutName, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return events, nil
}

// EncodeBatch packs canonical events into a dvs-layout recording. Used by
// tooling and tests to produce files ReadFile can load back.
func EncodeBatch(events []model.Event) []byte {
	layout := registry["dvs"]
	size := layout.RecordSize()
	data := make([]byte, len(events)*size)
	for i, e := range events {
		record := data[i*size : (i+1)*size]
		binary.LittleEndian.PutUint64(record[0:8], e.T)
		binary.LittleEndian.PutUint16(record[8:10], e.X)
		binary.LittleEndian.PutUint16(record[10:12], e.Y)
		if e.On {
			record[12] = 1
		}
	}
	return data
}
