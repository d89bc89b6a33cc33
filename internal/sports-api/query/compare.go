package query

import (
	"strings"
	"time"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

// fieldValue devolve o valor comparável do campo; nil vira o valor neutro do tipo.
// known=false para nomes que a entidade não possui.
func fieldValue(e model.Entity, name string) (t model.FieldType, v any, known bool) {
	f, ok := model.Lookup(e, name)
	if !ok {
		return model.TypeString, nil, false
	}
	if v, ok := coerce(f.Type, f.Value); ok {
		return f.Type, v, true
	}
	return f.Type, neutral(f.Type), true
}

func neutral(t model.FieldType) any {
	switch t {
	case model.TypeInt, model.TypeFloat:
		return float64(0)
	case model.TypeTime:
		return time.Time{}.UnixNano()
	case model.TypeObject:
		return nil
	default:
		return ""
	}
}

// coerce converte v para a forma comparável de t; ok=false quando não é conversível
func coerce(t model.FieldType, v any) (any, bool) {
	switch t {
	case model.TypeInt, model.TypeFloat:
		switch n := v.(type) {
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case float64:
			return n, true
		case float32:
			return float64(n), true
		}
	case model.TypeTime:
		switch tv := v.(type) {
		case time.Time:
			return tv.UnixNano(), true
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, tv); err == nil {
				return parsed.UnixNano(), true
			}
		}
	case model.TypeString:
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return nil, false
}

func matches(e model.Entity, where []Predicate) bool {
	for _, p := range where {
		if !matchOne(e, p) {
			return false
		}
	}
	return true
}

func matchOne(e model.Entity, p Predicate) bool {
	t, have, known := fieldValue(e, p.Field)
	for _, want := range p.Values {
		if !known || t == model.TypeObject {
			// campo ausente só casa com nil
			if want == nil {
				return true
			}
			continue
		}
		if want == nil {
			if have == neutral(t) {
				return true
			}
			continue
		}
		if w, ok := coerce(t, want); ok && w == have {
			return true
		}
	}
	return false
}

func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	}
	return 0
}
