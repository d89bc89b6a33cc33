package query

import (
	"context"
	"sort"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

// FindOne busca uma entidade por id e aplica projeção e expansões
func FindOne(ctx context.Context, src Source, c model.Collection, id string, opts Options) (Document, bool, error) {
	if err := validateIncludes(c, opts.Include); err != nil {
		return nil, false, err
	}
	var (
		doc   Document
		found bool
	)
	err := view(ctx, src, func(s Source) error {
		e, ok, err := s.Get(ctx, c, id)
		if err != nil || !ok {
			return err
		}
		doc, err = build(ctx, s, c, e, opts.Select, opts.Include)
		found = err == nil
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return doc, found, nil
}

// FindMany filtra, ordena, limita e projeta uma coleção. Nunca retorna slice nil.
func FindMany(ctx context.Context, src Source, c model.Collection, opts Options) ([]Document, error) {
	if err := validateIncludes(c, opts.Include); err != nil {
		return nil, err
	}
	out := []Document{}
	err := view(ctx, src, func(s Source) error {
		ents, err := list(ctx, s, c, opts.Where, opts.Sort, opts.Limit)
		if err != nil {
			return err
		}
		for _, e := range ents {
			doc, err := build(ctx, s, c, e, opts.Select, opts.Include)
			if err != nil {
				return err
			}
			out = append(out, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func view(ctx context.Context, src Source, fn func(Source) error) error {
	if v, ok := src.(Viewer); ok {
		return v.View(ctx, fn)
	}
	return fn(src)
}

func list(ctx context.Context, s Source, c model.Collection, where []Predicate, srt *Sort, limit int) ([]model.Entity, error) {
	all, err := s.List(ctx, c, where)
	if err != nil {
		return nil, err
	}
	ents := make([]model.Entity, 0, len(all))
	for _, e := range all {
		if matches(e, where) {
			ents = append(ents, e)
		}
	}
	if srt != nil {
		sortEntities(ents, *srt)
	}
	if limit > 0 && len(ents) > limit {
		ents = ents[:limit]
	}
	return ents, nil
}

func sortEntities(ents []model.Entity, s Sort) {
	keys := make([]any, len(ents))
	for i, e := range ents {
		_, keys[i], _ = fieldValue(e, s.Field)
	}
	idx := make([]int, len(ents))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		c := compare(keys[idx[i]], keys[idx[j]])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
	sorted := make([]model.Entity, len(ents))
	for i, k := range idx {
		sorted[i] = ents[k]
	}
	copy(ents, sorted)
}

func build(ctx context.Context, s Source, c model.Collection, e model.Entity, sel []string, incs []Include) (Document, error) {
	doc := toDocument(e, sel)
	for _, inc := range incs {
		rel, err := lookupRelation(c, inc.Relation)
		if err != nil {
			return nil, err
		}
		f, _ := model.Lookup(e, rel.localField)
		key, _ := f.Value.(string)

		if !rel.many {
			target, ok, err := s.Get(ctx, rel.target, key)
			if err != nil {
				return nil, err
			}
			if !ok {
				doc[inc.Relation] = nil
				continue
			}
			nested, err := build(ctx, s, rel.target, target, inc.Select, inc.Include)
			if err != nil {
				return nil, err
			}
			doc[inc.Relation] = map[string]any(nested)
			continue
		}

		limit := inc.Limit
		if limit <= 0 {
			limit = rel.defaultLimit
		}
		children, err := list(ctx, s, rel.target, []Predicate{Eq(rel.foreignField, key)}, inc.Sort, limit)
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, len(children))
		for _, child := range children {
			nested, err := build(ctx, s, rel.target, child, inc.Select, inc.Include)
			if err != nil {
				return nil, err
			}
			items = append(items, map[string]any(nested))
		}
		doc[inc.Relation] = items
	}
	return doc, nil
}
