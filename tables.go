package eoncompose

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// TableColumn is an auxiliary selector given by its evaluations on the domain.
type TableColumn struct {
	Tag         string
	Evaluations []fr.Element
}

// TableRegistry is the ordered tag list both key paths consult, so the proving
// key and the verification key always carry the same table columns in the
// same order.
type TableRegistry struct {
	columns []TableColumn
	index   map[string]int
}

func NewTableRegistry() *TableRegistry {
	return &TableRegistry{index: make(map[string]int)}
}

func (me *TableRegistry) Has(tag string) bool {
	_, ok := me.index[tag]
	return ok
}

func (me *TableRegistry) Register(tag string, evals []fr.Element) error {
	if me.Has(tag) {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
	}
	me.index[tag] = len(me.columns)
	me.columns = append(me.columns, TableColumn{Tag: tag, Evaluations: append([]fr.Element(nil), evals...)})
	return nil
}

func (me *TableRegistry) Len() int {
	return len(me.columns)
}

func (me *TableRegistry) Tags() []string {
	res := make([]string, len(me.columns))
	for i := range me.columns {
		res[i] = me.columns[i].Tag
	}
	return res
}

// Columns returns the registered columns in registration order.
func (me *TableRegistry) Columns() []TableColumn {
	return me.columns
}
