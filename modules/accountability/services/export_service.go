package services

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/graph"
)

const (
	SheetPresentations = "Presentations"
	SheetDocuments     = "Documents"
)

var (
	presentationHeader = []any{
		"ID", "Convocation", "Municipality", "Author", "Created", "Status",
		"Delivered", "Required", "Missing",
	}
	documentHeader = []any{"Presentation", "Document", "Required", "Delivered"}
)

// PresentationRow is one line of the presentations sheet.
type PresentationRow struct {
	ID           string
	Convocation  string
	Municipality string
	Author       string
	Created      string
	Status       string
	Delivered    int
	Required     int
	Missing      []string
}

// DocumentRow is one checklist entry of a presentation.
type DocumentRow struct {
	Presentation string
	Document     string
	Required     bool
	Delivered    bool
}

// ExportService writes the presentations an actor may read to a workbook.
type ExportService struct {
	svc *AccountabilityService
}

func NewExportService(svc *AccountabilityService) *ExportService {
	return &ExportService{svc: svc}
}

// Rows collects the report lines visible to actorID.
func (e *ExportService) Rows(ctx context.Context, actorID string) ([]PresentationRow, []DocumentRow, error) {
	var (
		rows []PresentationRow
		docs []DocumentRow
	)
	s := e.svc
	err := s.query(ctx, "export_presentations", actorID, func(g *graph.Graph, actor *user.User) error {
		visible, err := s.visiblePresentations(ctx, g, actor)
		if err != nil {
			return err
		}
		for _, p := range visible {
			c, err := g.Convocation(p.ConvocationID())
			if err != nil {
				return err
			}
			required := c.RequiredDocuments()
			row := PresentationRow{
				ID:           p.ID(),
				Convocation:  c.ID(),
				Municipality: p.MunicipalityID(),
				Author:       p.AuthorID(),
				Created:      p.CreatedAt().Format("2006-01-02"),
				Status:       p.Status().String(),
				Required:     len(required),
				Missing:      p.Documents().Missing(c.Documents()),
			}
			if m, err := g.Municipality(p.MunicipalityID()); err == nil {
				row.Municipality = m.Name()
			}
			if u, err := g.User(p.AuthorID()); err == nil {
				row.Author = u.Name()
			}
			for _, entry := range p.Documents().Entries() {
				if entry.Flag {
					row.Delivered++
				}
				docs = append(docs, DocumentRow{
					Presentation: p.ID(),
					Document:     entry.Name,
					Required:     slices.Contains(required, entry.Name),
					Delivered:    entry.Flag,
				})
			}
			rows = append(rows, row)
		}
		return nil
	})
	return rows, docs, err
}

// ExportPresentations writes an xlsx workbook with a presentations sheet and
// a documents sheet.
func (e *ExportService) ExportPresentations(ctx context.Context, actorID string, w io.Writer) error {
	rows, docs, err := e.Rows(ctx, actorID)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetPresentations); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(SheetDocuments); err != nil {
		return errors.Wrap(err, "create documents sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	if err := writeRow(f, SheetPresentations, 1, presentationHeader, bold); err != nil {
		return err
	}
	for i, r := range rows {
		line := []any{
			r.ID, r.Convocation, r.Municipality, r.Author, r.Created, r.Status,
			r.Delivered, r.Required, strings.Join(r.Missing, ", "),
		}
		if err := writeRow(f, SheetPresentations, i+2, line, 0); err != nil {
			return err
		}
	}

	if err := writeRow(f, SheetDocuments, 1, documentHeader, bold); err != nil {
		return err
	}
	for i, d := range docs {
		if err := writeRow(f, SheetDocuments, i+2, []any{d.Presentation, d.Document, d.Required, d.Delivered}, 0); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return errors.Wrapf(err, "write %s row %d", sheet, row)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return errors.Wrap(err, "style header")
	}
	return nil
}
