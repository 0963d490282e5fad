package storage

import (
	"encoding/json"
	"errors"

	"revmeter/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeEstimates(s model.EstimateSeries) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeEstimates(data []byte) (model.EstimateSeries, error) {
	var series model.EstimateSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return model.EstimateSeries{}, err
	}
	if err := checkVersion(series.VersionedRecord); err != nil {
		return model.EstimateSeries{}, err
	}
	return series, nil
}

func EncodeSpectrum(s model.SpectrumRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSpectrum(data []byte) (model.SpectrumRecord, error) {
	var spectrum model.SpectrumRecord
	if err := json.Unmarshal(data, &spectrum); err != nil {
		return model.SpectrumRecord{}, err
	}
	if err := checkVersion(spectrum.VersionedRecord); err != nil {
		return model.SpectrumRecord{}, err
	}
	return spectrum, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// Stamp fills in the current schema and codec versions.
func Stamp() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}
