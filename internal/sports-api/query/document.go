package query

import (
	"time"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

// Document é o resultado de uma consulta em forma JSON-nativa: números float64,
// datas RFC3339Nano UTC, objetos map[string]any e listas []any.
type Document map[string]any

type mapper interface {
	Map() map[string]any
}

func toDocument(e model.Entity, sel []string) Document {
	var keep map[string]bool
	if sel != nil {
		keep = make(map[string]bool, len(sel))
		for _, s := range sel {
			keep[s] = true
		}
	}
	doc := Document{}
	for _, f := range e.Fields() {
		if keep != nil && !keep[f.Name] {
			continue
		}
		doc[f.Name] = jsonValue(f)
	}
	return doc
}

func jsonValue(f model.Field) any {
	if f.Value == nil {
		return nil
	}
	switch v := f.Value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case mapper:
		return v.Map()
	default:
		return v
	}
}
