package compose

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders nil first, then numbers, strings, times and bools by
// their natural order. Values of unrelated types compare equal.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	return 0
}

// keyOf renders a reference value so equal ids of different integer types
// share a key.
func keyOf(v any) string {
	if id, ok := toInt64(v); ok {
		return fmt.Sprintf("%d", id)
	}
	return fmt.Sprint(v)
}

func cloneDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func asDocs(v any) []Document {
	switch x := v.(type) {
	case []Document:
		return x
	case []map[string]any:
		out := make([]Document, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out
	}
	return nil
}

// sumField adds up field over docs. The total stays an int64 unless a
// floating point value is seen.
func sumField(docs []Document, field string) any {
	var (
		ints     int64
		floats   float64
		sawFloat bool
	)
	for _, d := range docs {
		v := d[field]
		if isFloat(v) {
			f, _ := toFloat(v)
			floats += f
			sawFloat = true
			continue
		}
		if n, ok := toInt64(v); ok {
			ints += n
		}
	}
	if sawFloat {
		return floats + float64(ints)
	}
	return ints
}
