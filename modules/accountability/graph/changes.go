package graph

import (
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/convocation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/municipality"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
)

// Kind names an entity table.
type Kind string

const (
	KindUser         Kind = user.EntityName
	KindMunicipality Kind = municipality.EntityName
	KindConvocation  Kind = convocation.EntityName
	KindPresentation Kind = presentation.EntityName
)

// Kinds is the load order: every kind only references kinds listed before it.
var Kinds = []Kind{KindUser, KindMunicipality, KindConvocation, KindPresentation}

type ChangeOp string

const (
	OpSave        ChangeOp = "save"
	OpUpdateField ChangeOp = "update_field"
	OpDelete      ChangeOp = "delete"
)

type Change struct {
	Op    ChangeOp
	Kind  Kind
	ID    string
	Field string
	Value any
}

type changeLog struct {
	entries []Change
}

func (l *changeLog) save(kind Kind, id string) {
	l.drop(kind, id, func(c Change) bool { return c.Op != OpDelete })
	l.entries = append(l.entries, Change{Op: OpSave, Kind: kind, ID: id})
}

func (l *changeLog) field(kind Kind, id, field string, value any) {
	for _, c := range l.entries {
		if c.Kind == kind && c.ID == id && c.Op == OpSave {
			return
		}
	}
	l.drop(kind, id, func(c Change) bool { return c.Op == OpUpdateField && c.Field == field })
	l.entries = append(l.entries, Change{Op: OpUpdateField, Kind: kind, ID: id, Field: field, Value: value})
}

func (l *changeLog) delete(kind Kind, id string) {
	l.drop(kind, id, func(Change) bool { return true })
	l.entries = append(l.entries, Change{Op: OpDelete, Kind: kind, ID: id})
}

func (l *changeLog) drop(kind Kind, id string, match func(Change) bool) {
	out := l.entries[:0]
	for _, c := range l.entries {
		if c.Kind == kind && c.ID == id && match(c) {
			continue
		}
		out = append(out, c)
	}
	l.entries = out
}

// list returns the entries in recording order. Saves already supersede
// earlier field updates of the same entity and deletes supersede everything
// recorded before them.
func (l *changeLog) list() []Change {
	return append([]Change(nil), l.entries...)
}

// FieldStatus is the presentation field updated by close and reopen.
const FieldStatus = "status"
