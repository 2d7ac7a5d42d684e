package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Decode results are tagged per device class: structured when the JSON shape
// matched, scalar when the bare-payload fallback applied, invalid when
// neither yielded usable data. Invalid messages are dropped by the caller.

type decodeKind int

const (
	decodeStructured decodeKind = iota
	decodeScalar
	decodeInvalid
)

// temperatureDecode is a normalized temperature-state payload
type temperatureDecode struct {
	kind        decodeKind
	temperature float64
	unit        string
}

// lightDecode is a normalized light-state payload
type lightDecode struct {
	kind       decodeKind
	state      string
	brightness *float64
	color      *string
}

// climateDecode is a normalized climate-state payload
type climateDecode struct {
	kind        decodeKind
	power       string
	temperature *float64
	fanSpeed    *string
}

// decodeTemperature tries a structured decode first, then falls back to
// parsing the raw payload as a bare float with the unit defaulted.
func decodeTemperature(payload []byte) temperatureDecode {
	var doc struct {
		Temperature *float64 `json:"temperature"`
		Unit        string   `json:"unit"`
	}
	if err := json.Unmarshal(payload, &doc); err == nil && doc.Temperature != nil && isFinite(*doc.Temperature) {
		unit := doc.Unit
		if unit == "" {
			unit = "celsius"
		}
		return temperatureDecode{kind: decodeStructured, temperature: *doc.Temperature, unit: unit}
	}

	raw := strings.TrimSpace(string(payload))
	if v, err := strconv.ParseFloat(raw, 64); err == nil && isFinite(v) {
		return temperatureDecode{kind: decodeScalar, temperature: v, unit: "celsius"}
	}
	return temperatureDecode{kind: decodeInvalid}
}

// decodeLightState tries a structured decode; on failure the entire raw
// payload, upper-cased, becomes the state.
func decodeLightState(payload []byte) lightDecode {
	if isJSONObject(payload) {
		var doc struct {
			State      string   `json:"state"`
			Brightness *float64 `json:"brightness"`
			Color      *string  `json:"color"`
		}
		if err := json.Unmarshal(payload, &doc); err == nil && doc.State != "" {
			return lightDecode{kind: decodeStructured, state: doc.State, brightness: doc.Brightness, color: doc.Color}
		}
	}
	state := strings.ToUpper(strings.TrimSpace(string(payload)))
	if state == "" {
		return lightDecode{kind: decodeInvalid}
	}
	return lightDecode{kind: decodeScalar, state: state}
}

// decodeClimateState requires a structured payload; there is no scalar
// fallback for climate units.
func decodeClimateState(payload []byte) climateDecode {
	if !isJSONObject(payload) {
		return climateDecode{kind: decodeInvalid}
	}
	var doc struct {
		Power       string   `json:"power"`
		Temperature *float64 `json:"temperature"`
		FanSpeed    *string  `json:"fan_speed"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil || doc.Power == "" {
		return climateDecode{kind: decodeInvalid}
	}
	return climateDecode{kind: decodeStructured, power: doc.Power, temperature: doc.Temperature, fanSpeed: doc.FanSpeed}
}

func isJSONObject(payload []byte) bool {
	trimmed := strings.TrimSpace(string(payload))
	return strings.HasPrefix(trimmed, "{")
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
