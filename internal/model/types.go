package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Event is the canonical DVS event shape every decoder produces and the
// engine consumes. T is a microsecond timestamp; On reports the polarity.
type Event struct {
	T  uint64 `json:"t"`
	X  uint16 `json:"x"`
	Y  uint16 `json:"y"`
	On bool   `json:"on"`
}

// TickEstimate is one per-tick rotational-speed candidate.
type TickEstimate struct {
	Tick  int     `json:"tick"`
	RPM   float64 `json:"rpm"`
	TimeT uint64  `json:"t"`
}

type RunRecord struct {
	VersionedRecord
	ID           string `json:"id"`
	CreatedAtUTC string `json:"created_at_utc"`
	InputPath    string `json:"input_path"`
	Layout       string `json:"layout"`
	EventCount   int    `json:"event_count"`
	TickCount    int    `json:"tick_count"`
}

type EstimateSeries struct {
	VersionedRecord
	RunID     string         `json:"run_id"`
	Estimates []TickEstimate `json:"estimates"`
}

// SpectrumRecord holds the combined magnitude spectrum as of a run's last tick.
type SpectrumRecord struct {
	VersionedRecord
	RunID string    `json:"run_id"`
	Bins  []float32 `json:"bins"`
}
