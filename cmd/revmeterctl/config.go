package main

import (
	"encoding/json"
	"math"
	"os"

	revapi "revmeter/pkg/revmeter"
)

func loadRunRequestFromConfig(path string) (revapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return revapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return revapi.RunRequest{}, err
	}

	var req revapi.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["input_path"]); ok {
		req.InputPath = v
	}
	if v, ok := asString(raw["layout"]); ok {
		req.Layout = v
	}
	if v, ok := asInt(raw["batch_size"]); ok {
		req.BatchSize = v
	}
	return req, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
