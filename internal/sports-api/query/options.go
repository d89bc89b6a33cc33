package query

import (
	"context"
	"errors"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

var ErrUnknownRelation = errors.New("unknown relation")

// Predicate: um valor = igualdade, vários = pertencimento
type Predicate struct {
	Field  string
	Values []any
}

func Eq(field string, v any) Predicate { return Predicate{Field: field, Values: []any{v}} }

func In(field string, vs ...any) Predicate { return Predicate{Field: field, Values: vs} }

// Sort de chave única; empates mantêm a ordem de inserção
type Sort struct {
	Field string
	Desc  bool
}

func Asc(field string) *Sort  { return &Sort{Field: field} }
func Desc(field string) *Sort { return &Sort{Field: field, Desc: true} }

// Include expande uma relação nomeada. Limit 0 usa o default da relação.
type Include struct {
	Relation string
	Select   []string
	Sort     *Sort
	Limit    int
	Include  []Include
}

// Options agrupa filtro, ordenação, limite, projeção e expansões
type Options struct {
	Where   []Predicate
	Sort    *Sort
	Limit   int
	Select  []string
	Include []Include
}

// Source é a visão de leitura que o engine consome. List devolve em ordem de inserção;
// aplicar where é opcional (o engine sempre refiltra).
type Source interface {
	Get(ctx context.Context, c model.Collection, id string) (model.Entity, bool, error)
	List(ctx context.Context, c model.Collection, where []Predicate) ([]model.Entity, error)
}

// Viewer é implementado por fontes que oferecem uma visão consistente durante a consulta
type Viewer interface {
	View(ctx context.Context, fn func(Source) error) error
}
