package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-faster/errors"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/convocation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/municipality"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/checklist"
	"github.com/rendiciones/rendiciones/modules/accountability/services"
)

const dateLayout = "2006-01-02"

func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withCode(exitFailure, errors.Wrap(err, "json encode"))
	}
	return nil
}

type okView struct {
	OK     bool   `json:"ok"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

type userView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Municipality  string    `json:"municipality,omitempty"`
	Presentations []string  `json:"presentations"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:            u.ID(),
		Name:          u.Name(),
		Role:          string(u.Role()),
		Municipality:  u.MunicipalityID(),
		Presentations: nonNil(u.PresentationIDs()),
		CreatedAt:     u.CreatedAt(),
	}
}

type municipalityView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       int      `json:"category"`
	Representative string   `json:"representative,omitempty"`
	Supervisor     string   `json:"supervisor,omitempty"`
	Presentations  []string `json:"presentations"`
}

func toMunicipalityView(m *municipality.Municipality) municipalityView {
	return municipalityView{
		ID:             m.ID(),
		Name:           m.Name(),
		Category:       m.Category(),
		Representative: m.RepresentativeID(),
		Supervisor:     m.SupervisorID(),
		Presentations:  nonNil(m.PresentationIDs()),
	}
}

type convocationView struct {
	ID                string   `json:"id"`
	OpeningDate       string   `json:"opening_date"`
	ClosingDate       string   `json:"closing_date"`
	Description       string   `json:"description,omitempty"`
	Status            string   `json:"status"`
	StatusOverride    string   `json:"status_override,omitempty"`
	RequiredDocuments []string `json:"required_documents"`
	Presentations     []string `json:"presentations"`
}

func toConvocationView(svc *services.AccountabilityService, c *convocation.Convocation) convocationView {
	v := convocationView{
		ID:                c.ID(),
		OpeningDate:       c.OpeningDate().Format(dateLayout),
		ClosingDate:       c.ClosingDate().Format(dateLayout),
		Description:       c.Description(),
		Status:            string(svc.ConvocationStatus(c)),
		RequiredDocuments: nonNil(c.RequiredDocuments()),
		Presentations:     nonNil(c.PresentationIDs()),
	}
	if o := c.StatusOverride(); o != nil {
		v.StatusOverride = string(*o)
	}
	return v
}

type presentationView struct {
	ID           string            `json:"id"`
	Convocation  string            `json:"convocation"`
	Municipality string            `json:"municipality,omitempty"`
	Author       string            `json:"author"`
	CreatedAt    string            `json:"created_at"`
	Status       string            `json:"status"`
	Documents    []checklist.Entry `json:"documents"`
}

func toPresentationView(p *presentation.Presentation) presentationView {
	docs := p.Documents().Entries()
	if docs == nil {
		docs = []checklist.Entry{}
	}
	return presentationView{
		ID:           p.ID(),
		Convocation:  p.ConvocationID(),
		Municipality: p.MunicipalityID(),
		Author:       p.AuthorID(),
		CreatedAt:    p.CreatedAt().Format(dateLayout),
		Status:       string(p.Status()),
		Documents:    docs,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
