package presentation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/checklist"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

const (
	EntityName  = "presentation"
	MaxIDLength = 100
)

type Presentation struct {
	id             string
	createdAt      time.Time
	status         Status
	convocationID  string
	authorID       string
	municipalityID string
	documents      *checklist.Checklist
}

type Option func(*Presentation) error

func WithCreatedAt(t time.Time) Option {
	return func(p *Presentation) error {
		if !t.IsZero() {
			p.createdAt = t.UTC()
		}
		return nil
	}
}

// WithRequiredDocuments lists the given documents as not yet delivered.
func WithRequiredDocuments(names []string) Option {
	return func(p *Presentation) error {
		for _, name := range names {
			if err := p.documents.Track(name); err != nil {
				return err
			}
		}
		return nil
	}
}

// New creates an open presentation. The municipality is the author's
// represented municipality at creation time and never follows later
// reassignments.
func New(id, convocationID, authorID, municipalityID string, opts ...Option) (*Presentation, error) {
	now := time.Now().UTC()
	p := &Presentation{
		createdAt: now,
		status:    StatusOpen,
		documents: checklist.NewFreeForm(checklist.BaseCatalog),
	}
	if err := p.setID(id); err != nil {
		return nil, err
	}
	if err := p.setReferences(convocationID, authorID, municipalityID); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.createdAt.After(now) {
		return nil, serrors.NewValidationError(EntityName, "created_at", "ltenow")
	}
	return p, nil
}

// Hydrate rebuilds a presentation from storage.
func Hydrate(
	id string,
	createdAt time.Time,
	status Status,
	convocationID, authorID, municipalityID string,
	documents *checklist.Checklist,
) (*Presentation, error) {
	p := &Presentation{createdAt: createdAt.UTC()}
	if err := p.setID(id); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, serrors.NewValidationError(EntityName, "status", "oneof=open closed")
	}
	p.status = status
	if err := p.setReferences(convocationID, authorID, municipalityID); err != nil {
		return nil, err
	}
	if documents == nil {
		documents = checklist.NewFreeForm(checklist.BaseCatalog)
	}
	if documents.Mode() != checklist.ModeFreeForm {
		return nil, serrors.NewValidationError(EntityName, "documents", "mode=free_form")
	}
	p.documents = documents.Clone()
	return p, nil
}

func (p *Presentation) ID() string             { return p.id }
func (p *Presentation) CreatedAt() time.Time   { return p.createdAt }
func (p *Presentation) Status() Status         { return p.status }
func (p *Presentation) IsOpen() bool           { return p.status == StatusOpen }
func (p *Presentation) ConvocationID() string  { return p.convocationID }
func (p *Presentation) AuthorID() string       { return p.authorID }
func (p *Presentation) MunicipalityID() string { return p.municipalityID }

// Documents returns the delivery checklist. Callers mutating it must own the
// presentation.
func (p *Presentation) Documents() *checklist.Checklist { return p.documents }

func (p *Presentation) DeliverDocument(name string) error {
	return p.documents.RequireDocument(name)
}

func (p *Presentation) WithdrawDocument(name string) error {
	return p.documents.WithdrawDocument(name)
}

func (p *Presentation) IsDelivered(name string) bool {
	return p.documents.IsDelivered(name)
}

// AllRequiredDelivered checks the delivery checklist against the documents
// the convocation requires.
func (p *Presentation) AllRequiredDelivered(required *checklist.Checklist) bool {
	return p.documents.AllRequiredDelivered(required)
}

func (p *Presentation) Close()  { p.status = StatusClosed }
func (p *Presentation) Reopen() { p.status = StatusOpen }

// Detach clears the forward references once the presentation has been
// removed from every back-reference collection.
func (p *Presentation) Detach() {
	p.convocationID = ""
	p.authorID = ""
	p.municipalityID = ""
}

func (p *Presentation) Clone() *Presentation {
	out := *p
	out.documents = p.documents.Clone()
	return &out
}

func (p *Presentation) setID(id string) error {
	id = strings.TrimSpace(id)
	n := utf8.RuneCountInString(id)
	if n == 0 {
		return serrors.NewValidationError(EntityName, "id", "required")
	}
	if n > MaxIDLength {
		return serrors.NewValidationError(EntityName, "id", "max=100")
	}
	p.id = id
	return nil
}

func (p *Presentation) setReferences(convocationID, authorID, municipalityID string) error {
	refs := []struct {
		field string
		value *string
		in    string
	}{
		{"convocation_id", &p.convocationID, convocationID},
		{"author_id", &p.authorID, authorID},
		{"municipality_id", &p.municipalityID, municipalityID},
	}
	for _, r := range refs {
		v := strings.TrimSpace(r.in)
		if v == "" {
			return serrors.NewValidationError(EntityName, r.field, "required")
		}
		*r.value = v
	}
	return nil
}
