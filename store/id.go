package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is an entity identifier: either a number or a string.
//
// The zero value is the empty string id.
type ID struct {
	num   float64
	str   string
	isNum bool
}

// ParseID coerces a raw id, typically a URL path segment. A string that reads
// as a finite number becomes a numeric id, anything else stays a string.
func ParseID(s string) ID {
	if t := strings.TrimSpace(s); t != "" {
		if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return ID{num: f, isNum: true}
		}
	}
	return ID{str: s}
}

// NumberID returns the numeric id n.
func NumberID(n int64) ID {
	return ID{num: float64(n), isNum: true}
}

// IDOf extracts and normalizes the id field of an entity. ok is false when the
// entity has no id or the id is neither a string nor a number.
func IDOf(e Entity) (id ID, ok bool) {
	v, found := e[IDField]
	if !found {
		return ID{}, false
	}
	return idFromValue(v)
}

func idFromValue(v any) (ID, bool) {
	switch t := v.(type) {
	case string:
		return ParseID(t), true
	case json.Number:
		return ParseID(t.String()), true
	case float64:
		return ID{num: t, isNum: true}, true
	case int:
		return NumberID(int64(t)), true
	case int64:
		return NumberID(t), true
	}
	return ID{}, false
}

// IsNumber reports whether the id is numeric.
func (id ID) IsNumber() bool {
	return id.isNum
}

// Equal compares two normalized ids. Numbers never equal strings.
func (id ID) Equal(o ID) bool {
	if id.isNum != o.isNum {
		return false
	}
	if id.isNum {
		return id.num == o.num
	}
	return id.str == o.str
}

// Value is the id as it should appear in JSON.
func (id ID) Value() any {
	if !id.isNum {
		return id.str
	}
	if id.num == math.Trunc(id.num) && math.Abs(id.num) < 1<<53 {
		return json.Number(strconv.FormatInt(int64(id.num), 10))
	}
	return json.Number(strconv.FormatFloat(id.num, 'g', -1, 64))
}

func (id ID) String() string {
	return fmt.Sprint(id.Value())
}
