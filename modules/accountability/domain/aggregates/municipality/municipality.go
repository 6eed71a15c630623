package municipality

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

const (
	EntityName    = "municipality"
	MaxIDLength   = 30
	MaxNameLength = 100
)

type Municipality struct {
	id               string
	name             string
	category         int
	supervisorID     string
	representativeID string
	presentationIDs  []string
}

func New(id, name string, category int) (*Municipality, error) {
	m := &Municipality{}
	if err := m.setID(id); err != nil {
		return nil, err
	}
	if err := m.SetName(name); err != nil {
		return nil, err
	}
	if err := m.SetCategory(category); err != nil {
		return nil, err
	}
	return m, nil
}

// Hydrate rebuilds a municipality from storage. The presentation
// back-references are rebuilt by the graph.
func Hydrate(id, name string, category int, supervisorID, representativeID string) (*Municipality, error) {
	m, err := New(id, name, category)
	if err != nil {
		return nil, err
	}
	m.supervisorID = strings.TrimSpace(supervisorID)
	m.representativeID = strings.TrimSpace(representativeID)
	return m, nil
}

func (m *Municipality) ID() string               { return m.id }
func (m *Municipality) Name() string             { return m.name }
func (m *Municipality) Category() int            { return m.category }
func (m *Municipality) SupervisorID() string     { return m.supervisorID }
func (m *Municipality) RepresentativeID() string { return m.representativeID }

func (m *Municipality) PresentationIDs() []string {
	return slices.Clone(m.presentationIDs)
}

func (m *Municipality) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return serrors.NewValidationError(EntityName, "name", "required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return serrors.NewValidationError(EntityName, "name", "max=100")
	}
	m.name = name
	return nil
}

func (m *Municipality) SetCategory(category int) error {
	if category < 0 {
		return serrors.NewValidationError(EntityName, "category", "min=0")
	}
	m.category = category
	return nil
}

func (m *Municipality) SetSupervisor(id string)     { m.supervisorID = id }
func (m *Municipality) ClearSupervisor()            { m.supervisorID = "" }
func (m *Municipality) SetRepresentative(id string) { m.representativeID = id }
func (m *Municipality) ClearRepresentative()        { m.representativeID = "" }

func (m *Municipality) AddPresentation(id string) {
	if !slices.Contains(m.presentationIDs, id) {
		m.presentationIDs = append(m.presentationIDs, id)
	}
}

func (m *Municipality) RemovePresentation(id string) {
	m.presentationIDs = slices.DeleteFunc(m.presentationIDs, func(p string) bool { return p == id })
}

func (m *Municipality) Clone() *Municipality {
	c := *m
	c.presentationIDs = slices.Clone(m.presentationIDs)
	return &c
}

func (m *Municipality) setID(id string) error {
	id = strings.TrimSpace(id)
	n := utf8.RuneCountInString(id)
	if n == 0 {
		return serrors.NewValidationError(EntityName, "id", "required")
	}
	if n > MaxIDLength {
		return serrors.NewValidationError(EntityName, "id", "max=30")
	}
	m.id = id
	return nil
}
