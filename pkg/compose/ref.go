package compose

import (
	"fmt"
	"strconv"
	"strings"

	"VideoTube.com/pkg/errno"
)

// ParseRef parses an entity reference. References are positive int64 ids.
func ParseRef(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errno.ParamErr.WithMessage(fmt.Sprintf("invalid reference %q", raw))
	}
	return id, nil
}

func isRefField(field string) bool {
	return field == "id" || strings.HasSuffix(field, "_id")
}

func normalizeRef(field string, v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return ParseRef(x)
	default:
		id, ok := toInt64(v)
		if !ok || id <= 0 {
			return 0, errno.ParamErr.WithMessage(fmt.Sprintf("invalid reference %v for %s", v, field))
		}
		return id, nil
	}
}

// validateFilter checks every reference condition and returns a copy with
// references normalised to int64.
func validateFilter(f Filter, requireCond bool) (Filter, error) {
	if requireCond && len(f) == 0 {
		return nil, errno.ParamErr.WithMessage("filter must select at least one condition")
	}
	out := make(Filter, 0, len(f))
	for _, c := range f {
		switch c.Op {
		case OpEq:
			if isRefField(c.Field) {
				id, err := normalizeRef(c.Field, c.Value)
				if err != nil {
					return nil, err
				}
				c.Value = id
			}
		case OpIn:
			if isRefField(c.Field) {
				values := make([]any, 0, len(c.Values))
				for _, v := range c.Values {
					id, err := normalizeRef(c.Field, v)
					if err != nil {
						return nil, err
					}
					values = append(values, id)
				}
				c.Values = values
			}
		case OpMatch:
			if len(c.Fields) == 0 {
				return nil, errno.ParamErr.WithMessage("match condition needs at least one field")
			}
		default:
			return nil, errno.ParamErr.WithMessage(fmt.Sprintf("unknown filter operator %d", c.Op))
		}
		out = append(out, c)
	}
	return out, nil
}
