package model

import "time"

// Collection identifica um conjunto de entidades (uma tabela no store durável)
type Collection string

const (
	Users   Collection = "users"
	Teams   Collection = "teams"
	Players Collection = "players"
	Matches Collection = "matches"
)

// FieldType define como um campo é comparado e qual o seu valor neutro
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeTime
	TypeObject
)

// Field é um campo nomeado de uma entidade. Value nil representa null.
type Field struct {
	Name  string
	Type  FieldType
	Value any
}

// Entity é o contrato mínimo que o query engine exige de cada registro
type Entity interface {
	EntityID() string
	Fields() []Field
}

// Lookup retorna o campo pelo nome (nomes no formato JSON, ex.: "teamId")
func Lookup(e Entity, name string) (Field, bool) {
	for _, f := range e.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Timestamps é compartilhado por todas as entidades
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
