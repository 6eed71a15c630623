package convocation

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/checklist"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

const (
	EntityName           = "convocation"
	MaxIDLength          = 100
	MaxDescriptionLength = 2000
)

type Convocation struct {
	id              string
	openingDate     time.Time
	closingDate     time.Time
	description     string
	documents       *checklist.Checklist
	statusOverride  *Status
	presentationIDs []string
}

type Option func(*Convocation)

func WithDescription(d string) Option {
	return func(c *Convocation) {
		c.description = strings.TrimSpace(d)
	}
}

func WithCatalog(catalog []string) Option {
	return func(c *Convocation) {
		c.documents = checklist.NewRestricted(catalog)
	}
}

func New(id string, opening, closing time.Time, opts ...Option) (*Convocation, error) {
	c := &Convocation{documents: checklist.NewRestricted(checklist.BaseCatalog)}
	if err := c.setID(id); err != nil {
		return nil, err
	}
	if err := c.SetDates(opening, closing); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.SetDescription(c.description); err != nil {
		return nil, err
	}
	return c, nil
}

// Hydrate rebuilds a convocation from storage.
func Hydrate(
	id string,
	opening, closing time.Time,
	description string,
	documents *checklist.Checklist,
	statusOverride *Status,
) (*Convocation, error) {
	c, err := New(id, opening, closing, WithDescription(description))
	if err != nil {
		return nil, err
	}
	if documents != nil {
		if documents.Mode() != checklist.ModeRestricted {
			return nil, serrors.NewValidationError(EntityName, "documents", "mode=restricted")
		}
		c.documents = documents.Clone()
	}
	if statusOverride != nil {
		if err := c.OverrideStatus(*statusOverride); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Convocation) ID() string             { return c.id }
func (c *Convocation) OpeningDate() time.Time { return c.openingDate }
func (c *Convocation) ClosingDate() time.Time { return c.closingDate }
func (c *Convocation) Description() string    { return c.description }

// Documents returns the checklist of required documents. Callers mutating it
// must own the convocation.
func (c *Convocation) Documents() *checklist.Checklist { return c.documents }

func (c *Convocation) RequiredDocuments() []string { return c.documents.Flagged() }

func (c *Convocation) StatusOverride() *Status {
	if c.statusOverride == nil {
		return nil
	}
	s := *c.statusOverride
	return &s
}

// Status returns the override when set, otherwise Open iff
// opening <= today < closing, comparing UTC calendar days.
func (c *Convocation) Status(now time.Time) Status {
	if c.statusOverride != nil {
		return *c.statusOverride
	}
	today := day(now)
	if !today.Before(day(c.openingDate)) && today.Before(day(c.closingDate)) {
		return StatusOpen
	}
	return StatusClosed
}

func (c *Convocation) IsOpen(now time.Time) bool {
	return c.Status(now) == StatusOpen
}

func (c *Convocation) PresentationIDs() []string {
	return slices.Clone(c.presentationIDs)
}

func (c *Convocation) HasPresentations() bool {
	return len(c.presentationIDs) > 0
}

func (c *Convocation) SetDates(opening, closing time.Time) error {
	if opening.IsZero() {
		return serrors.NewValidationError(EntityName, "opening_date", "required")
	}
	if closing.IsZero() {
		return serrors.NewValidationError(EntityName, "closing_date", "required")
	}
	opening, closing = day(opening), day(closing)
	if closing.Before(opening) {
		return serrors.NewValidationError(EntityName, "closing_date", "gtefield=opening_date")
	}
	c.openingDate = opening
	c.closingDate = closing
	return nil
}

func (c *Convocation) SetDescription(d string) error {
	d = strings.TrimSpace(d)
	if utf8.RuneCountInString(d) > MaxDescriptionLength {
		return serrors.NewValidationError(EntityName, "description", "max=2000")
	}
	c.description = d
	return nil
}

func (c *Convocation) RequireDocument(name string) error {
	return c.documents.RequireDocument(name)
}

func (c *Convocation) WithdrawDocument(name string) error {
	return c.documents.WithdrawDocument(name)
}

func (c *Convocation) OverrideStatus(s Status) error {
	if !s.IsValid() {
		return serrors.NewValidationError(EntityName, "status", "oneof=open closed")
	}
	c.statusOverride = &s
	return nil
}

func (c *Convocation) ClearStatusOverride() { c.statusOverride = nil }

func (c *Convocation) AddPresentation(id string) {
	if !slices.Contains(c.presentationIDs, id) {
		c.presentationIDs = append(c.presentationIDs, id)
	}
}

func (c *Convocation) RemovePresentation(id string) {
	c.presentationIDs = slices.DeleteFunc(c.presentationIDs, func(p string) bool { return p == id })
}

func (c *Convocation) Clone() *Convocation {
	out := *c
	out.documents = c.documents.Clone()
	out.statusOverride = c.StatusOverride()
	out.presentationIDs = slices.Clone(c.presentationIDs)
	return &out
}

func (c *Convocation) setID(id string) error {
	id = strings.TrimSpace(id)
	n := utf8.RuneCountInString(id)
	if n == 0 {
		return serrors.NewValidationError(EntityName, "id", "required")
	}
	if n > MaxIDLength {
		return serrors.NewValidationError(EntityName, "id", "max=100")
	}
	c.id = id
	return nil
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
