package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RawRecord is one entry of the nested input document. A leaf carries
// Category and Value; a group carries Children.
type RawRecord struct {
	Name     string      `json:"name"`
	Category string      `json:"category,omitempty"`
	Value    *Number     `json:"value,omitempty"`
	Children []RawRecord `json:"children,omitempty"`
}

// IsLeaf reports whether the record has no children.
func (r RawRecord) IsLeaf() bool { return len(r.Children) == 0 }

// Number is a leaf weight. Published datasets encode values either as JSON
// numbers or as numeric strings ("82.53"); both decode to the same float.
// A string that does not parse decodes to NaN so that Build can decide
// whether to reject it or treat it as zero.
type Number float64

// Float returns the value as a float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON accepts a JSON number or a string holding one.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = Number(math.NaN())
			return nil
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	*n = Number(f)
	return nil
}

// MarshalJSON writes the value as a JSON number; NaN and infinities become null.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

// Num is a convenience constructor for literal leaf values.
func Num(f float64) *Number {
	n := Number(f)
	return &n
}

// Decode reads a RawRecord document from r.
func Decode(r io.Reader) (RawRecord, error) {
	var rec RawRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return RawRecord{}, fmt.Errorf("decode dataset: %w", err)
	}
	return rec, nil
}

// Parse decodes a RawRecord document from data.
func Parse(data []byte) (RawRecord, error) {
	return Decode(bytes.NewReader(data))
}
