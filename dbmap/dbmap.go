// Package dbmap resolves decibel levels to hardware output codes using a
// JSON map document of the form
//
//	{"db": {"-6": "6'b001001", "-12": ["6'b000100", "alt"], "Others": "0"}}
//
// Keys are integer decibel levels, plus the special keys -Infinity (the
// level of a zero amplitude) and Others (the fallback for unmapped
// levels). Values are Verilog-style literals; array values use their
// first element.
package dbmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/cwbudde/wavefile/verilog"
)

const (
	keyInfinity = "-Infinity"
	keyOthers   = "Others"
)

// document mirrors the on-disk JSON layout.
type document struct {
	Db map[string]any `json:"db"`
}

// Map resolves rounded decibel levels to integer output codes. The zero
// value is an empty map that resolves nothing.
type Map struct {
	codes map[string]int
}

// Load reads and parses the map document at path.
func Load(path string) (*Map, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open decibel map: %w", err)
	}
	defer fd.Close()

	return Parse(fd)
}

// Parse decodes a map document and evaluates every literal.
func Parse(r io.Reader) (*Map, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode decibel map: %w", err)
	}

	m := &Map{codes: make(map[string]int, len(doc.Db))}

	for level, value := range doc.Db {
		key, err := normalizeLevel(level)
		if err != nil {
			return nil, err
		}

		literal, err := literalText(value)
		if err != nil {
			return nil, fmt.Errorf("decibel level %q: %w", level, err)
		}

		code, err := verilog.ParseLiteral(literal)
		if err != nil {
			return nil, fmt.Errorf("decibel level %q: %w", level, err)
		}

		m.codes[key] = code
	}

	return m, nil
}

// Code returns the output code for a decibel level. The level is rounded
// to the nearest integer key; infinite levels map to the -Infinity key,
// and unmapped levels fall back to Others.
func (m *Map) Code(db float64) (int, error) {
	key := keyInfinity
	if !math.IsInf(db, 0) {
		// half-up rounding, so -2.5 maps to -2
		key = strconv.Itoa(int(math.Floor(db + 0.5)))
	}

	if code, ok := m.codes[key]; ok {
		return code, nil
	}

	if code, ok := m.codes[keyOthers]; ok {
		return code, nil
	}

	return 0, fmt.Errorf("no map entry for decibel level %s", key)
}

// Len returns the number of mapped levels.
func (m *Map) Len() int {
	return len(m.codes)
}

// Decibel converts a normalized amplitude in [0, 1] to a decibel level:
// 20*log10(v). A zero amplitude yields -Inf.
func Decibel(v float64) float64 {
	return 20 * math.Log10(v)
}

func normalizeLevel(level string) (string, error) {
	if level == keyInfinity || level == keyOthers {
		return level, nil
	}

	n, err := strconv.Atoi(level)
	if err != nil {
		return "", fmt.Errorf("invalid decibel level %q: %w", level, err)
	}

	return strconv.Itoa(n), nil
}

func literalText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []any:
		if len(v) == 0 {
			return "", errors.New("empty level value array")
		}

		s, ok := v[0].(string)
		if !ok {
			return "", fmt.Errorf("unexpected level value type %T", v[0])
		}

		return s, nil
	default:
		return "", fmt.Errorf("unexpected level value type %T", value)
	}
}
