// Package checklist tracks, per convocation or presentation, which documents
// are required or delivered.
//
// A restricted checklist (convocations) only accepts names from its catalog
// and always lists every catalog entry; the flag means "required". A
// free-form checklist (presentations) accepts any name; the flag means
// "delivered" and only non-catalog ("additional") entries are removed on
// withdrawal.
package checklist

import (
	"strings"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

// BaseCatalog is the fixed set of documents a convocation may require.
var BaseCatalog = []string{
	"Libro Diario",
	"Libro Mayor",
	"Balance General",
	"Estado de Ejecucion Presupuestaria",
	"Conciliacion Bancaria",
	"Arqueo de Caja",
	"Inventario de Bienes",
	"Nomina de Personal",
}

type Mode string

const (
	ModeRestricted Mode = "restricted"
	ModeFreeForm   Mode = "free_form"
)

type Entry struct {
	Name string `json:"name"`
	Flag bool   `json:"flag"`
}

type Checklist struct {
	mode    Mode
	catalog []string
	entries []Entry
}

// NewRestricted returns a checklist listing every catalog document, none of
// them required yet.
func NewRestricted(catalog []string) *Checklist {
	c := &Checklist{mode: ModeRestricted, catalog: normalizeCatalog(catalog)}
	for _, name := range c.catalog {
		c.entries = append(c.entries, Entry{Name: name})
	}
	return c
}

func NewFreeForm(catalog []string) *Checklist {
	return &Checklist{mode: ModeFreeForm, catalog: normalizeCatalog(catalog)}
}

// Hydrate rebuilds a checklist from persisted entries. Restricted
// checklists get any missing catalog entries back as unflagged.
func Hydrate(mode Mode, catalog []string, entries []Entry) (*Checklist, error) {
	var c *Checklist
	switch mode {
	case ModeRestricted:
		c = NewRestricted(catalog)
	case ModeFreeForm:
		c = NewFreeForm(catalog)
	default:
		return nil, serrors.NewValidationError("checklist", "mode", "oneof=restricted free_form")
	}
	for _, e := range entries {
		name, err := normalizeName(e.Name)
		if err != nil {
			return nil, err
		}
		if c.mode == ModeRestricted && !c.InCatalog(name) {
			return nil, serrors.NewInvalidDocumentError(name)
		}
		c.set(name, e.Flag)
	}
	return c, nil
}

func (c *Checklist) Mode() Mode { return c.mode }

func (c *Checklist) Catalog() []string {
	return append([]string(nil), c.catalog...)
}

// Entries returns a copy of the entries in insertion order.
func (c *Checklist) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Flagged lists the names whose flag is set (required or delivered).
func (c *Checklist) Flagged() []string {
	var out []string
	for _, e := range c.entries {
		if e.Flag {
			out = append(out, e.Name)
		}
	}
	return out
}

func (c *Checklist) InCatalog(name string) bool {
	for _, n := range c.catalog {
		if n == name {
			return true
		}
	}
	return false
}

func (c *Checklist) Has(name string) bool {
	return c.index(strings.TrimSpace(name)) >= 0
}

// RequireDocument sets the flag of name, adding the entry when absent.
func (c *Checklist) RequireDocument(name string) error {
	name, err := c.accept(name)
	if err != nil {
		return err
	}
	c.set(name, true)
	return nil
}

// Track adds name unflagged if it is not listed yet.
func (c *Checklist) Track(name string) error {
	name, err := c.accept(name)
	if err != nil {
		return err
	}
	if c.index(name) < 0 {
		c.set(name, false)
	}
	return nil
}

// WithdrawDocument clears the flag of a catalog document and removes an
// additional one entirely.
func (c *Checklist) WithdrawDocument(name string) error {
	name, err := c.accept(name)
	if err != nil {
		return err
	}
	i := c.index(name)
	if i < 0 {
		return serrors.NewNotFoundError("document", name)
	}
	if c.InCatalog(name) {
		c.entries[i].Flag = false
		return nil
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return nil
}

func (c *Checklist) IsDelivered(name string) bool {
	i := c.index(strings.TrimSpace(name))
	return i >= 0 && c.entries[i].Flag
}

// AllRequiredDelivered reports whether every document flagged in against is
// flagged here too. It stops at the first missing document.
func (c *Checklist) AllRequiredDelivered(against *Checklist) bool {
	if against == nil {
		return true
	}
	for _, e := range against.entries {
		if e.Flag && !c.IsDelivered(e.Name) {
			return false
		}
	}
	return true
}

// Missing lists the documents flagged in against but not here.
func (c *Checklist) Missing(against *Checklist) []string {
	if against == nil {
		return nil
	}
	var out []string
	for _, e := range against.entries {
		if e.Flag && !c.IsDelivered(e.Name) {
			out = append(out, e.Name)
		}
	}
	return out
}

func (c *Checklist) Clone() *Checklist {
	if c == nil {
		return nil
	}
	return &Checklist{
		mode:    c.mode,
		catalog: append([]string(nil), c.catalog...),
		entries: append([]Entry(nil), c.entries...),
	}
}

func (c *Checklist) accept(name string) (string, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", err
	}
	if c.mode == ModeRestricted && !c.InCatalog(name) {
		return "", serrors.NewInvalidDocumentError(name)
	}
	return name, nil
}

func (c *Checklist) set(name string, flag bool) {
	if i := c.index(name); i >= 0 {
		c.entries[i].Flag = flag
		return
	}
	c.entries = append(c.entries, Entry{Name: name, Flag: flag})
}

func (c *Checklist) index(name string) int {
	for i, e := range c.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", serrors.NewValidationError("checklist", "document", "required")
	}
	return name, nil
}

func normalizeCatalog(catalog []string) []string {
	out := make([]string, 0, len(catalog))
	seen := make(map[string]struct{}, len(catalog))
	for _, name := range catalog {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
