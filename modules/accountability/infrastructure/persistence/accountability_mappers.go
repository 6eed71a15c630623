package persistence

import (
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/convocation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/municipality"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/checklist"
	"github.com/rendiciones/rendiciones/modules/accountability/infrastructure/persistence/models"
)

func ToDBUser(u *user.User) models.User {
	return models.User{
		ID:             u.ID(),
		Name:           u.Name(),
		SecretHash:     u.SecretHash(),
		Role:           u.Role().String(),
		MunicipalityID: u.MunicipalityID(),
		CreatedAt:      u.CreatedAt(),
	}
}

func ToDomainUser(m models.User) (*user.User, error) {
	role, err := user.NewRole(m.Role)
	if err != nil {
		return nil, err
	}
	return user.Hydrate(m.ID, m.Name, m.SecretHash, role, m.MunicipalityID, m.CreatedAt)
}

func ToDBMunicipality(m *municipality.Municipality) models.Municipality {
	return models.Municipality{
		ID:               m.ID(),
		Name:             m.Name(),
		Category:         m.Category(),
		SupervisorID:     m.SupervisorID(),
		RepresentativeID: m.RepresentativeID(),
	}
}

func ToDomainMunicipality(m models.Municipality) (*municipality.Municipality, error) {
	return municipality.Hydrate(m.ID, m.Name, m.Category, m.SupervisorID, m.RepresentativeID)
}

func ToDBConvocation(c *convocation.Convocation) models.Convocation {
	var override *string
	if s := c.StatusOverride(); s != nil {
		v := s.String()
		override = &v
	}
	return models.Convocation{
		ID:             c.ID(),
		OpeningDate:    c.OpeningDate(),
		ClosingDate:    c.ClosingDate(),
		Description:    c.Description(),
		StatusOverride: override,
		Documents:      toDBDocuments(c.Documents()),
	}
}

func ToDomainConvocation(m models.Convocation) (*convocation.Convocation, error) {
	var override *convocation.Status
	if m.StatusOverride != nil {
		s, err := convocation.NewStatus(*m.StatusOverride)
		if err != nil {
			return nil, err
		}
		override = &s
	}
	docs, err := checklist.Hydrate(checklist.ModeRestricted, checklist.BaseCatalog, toDomainEntries(m.Documents))
	if err != nil {
		return nil, err
	}
	return convocation.Hydrate(m.ID, m.OpeningDate, m.ClosingDate, m.Description, docs, override)
}

func ToDBPresentation(p *presentation.Presentation) models.Presentation {
	return models.Presentation{
		ID:             p.ID(),
		CreatedAt:      p.CreatedAt(),
		Status:         p.Status().String(),
		ConvocationID:  p.ConvocationID(),
		AuthorID:       p.AuthorID(),
		MunicipalityID: p.MunicipalityID(),
		Documents:      toDBDocuments(p.Documents()),
	}
}

func ToDomainPresentation(m models.Presentation) (*presentation.Presentation, error) {
	status, err := presentation.NewStatus(m.Status)
	if err != nil {
		return nil, err
	}
	docs, err := checklist.Hydrate(checklist.ModeFreeForm, checklist.BaseCatalog, toDomainEntries(m.Documents))
	if err != nil {
		return nil, err
	}
	return presentation.Hydrate(m.ID, m.CreatedAt, status, m.ConvocationID, m.AuthorID, m.MunicipalityID, docs)
}

func toDBDocuments(c *checklist.Checklist) []models.DocumentEntry {
	entries := c.Entries()
	out := make([]models.DocumentEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.DocumentEntry{Name: e.Name, Flag: e.Flag})
	}
	return out
}

func toDomainEntries(docs []models.DocumentEntry) []checklist.Entry {
	out := make([]checklist.Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, checklist.Entry{Name: d.Name, Flag: d.Flag})
	}
	return out
}
