package convocation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/checklist"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	c, err := New("c1", date(2024, 3, 1), date(2024, 3, 31), WithDescription(" Rendicion anual "))
	require.NoError(t, err)
	require.Equal(t, "Rendicion anual", c.Description())
	require.Len(t, c.Documents().Entries(), len(checklist.BaseCatalog))
	require.Empty(t, c.RequiredDocuments())
	require.Nil(t, c.StatusOverride())
}

func TestNew_Validation(t *testing.T) {
	_, err := New("c1", date(2024, 3, 2), date(2024, 3, 1))
	var verr *serrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "closing_date", verr.Field)

	_, err = New("", date(2024, 3, 1), date(2024, 3, 1))
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = New(strings.Repeat("c", 101), date(2024, 3, 1), date(2024, 3, 1))
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = New("c1", date(2024, 3, 1), date(2024, 3, 1), WithDescription(strings.Repeat("d", 2001)))
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = New("c1", time.Time{}, date(2024, 3, 1))
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestStatus_DateWindow(t *testing.T) {
	c, err := New("c1", date(2024, 3, 1), date(2024, 3, 10))
	require.NoError(t, err)

	assert.Equal(t, StatusClosed, c.Status(date(2024, 2, 29)))
	assert.Equal(t, StatusOpen, c.Status(date(2024, 3, 1)))
	assert.Equal(t, StatusOpen, c.Status(date(2024, 3, 9).Add(23*time.Hour)))
	assert.Equal(t, StatusClosed, c.Status(date(2024, 3, 10)))
}

func TestStatus_SameDayWindowIsClosed(t *testing.T) {
	c, err := New("c1", date(2024, 3, 1), date(2024, 3, 1))
	require.NoError(t, err)
	assert.False(t, c.IsOpen(date(2024, 3, 1)))
}

func TestStatus_Override(t *testing.T) {
	c, err := New("c1", date(2024, 3, 1), date(2024, 3, 10))
	require.NoError(t, err)

	require.NoError(t, c.OverrideStatus(StatusClosed))
	assert.Equal(t, StatusClosed, c.Status(date(2024, 3, 5)))

	require.NoError(t, c.OverrideStatus(StatusOpen))
	assert.Equal(t, StatusOpen, c.Status(date(2025, 1, 1)))

	c.ClearStatusOverride()
	assert.Equal(t, StatusClosed, c.Status(date(2025, 1, 1)))

	require.ErrorIs(t, c.OverrideStatus(Status("paused")), serrors.ErrValidation)
}

func TestRequireDocument_RestrictedToCatalog(t *testing.T) {
	c, err := New("c1", date(2024, 3, 1), date(2024, 3, 10))
	require.NoError(t, err)

	require.NoError(t, c.RequireDocument("Libro Diario"))
	require.Equal(t, []string{"Libro Diario"}, c.RequiredDocuments())

	var docErr *serrors.InvalidDocumentError
	require.ErrorAs(t, c.RequireDocument("Factura"), &docErr)
	require.Equal(t, "Factura", docErr.Document)
}

func TestCloneIsIndependent(t *testing.T) {
	c, err := New("c1", date(2024, 3, 1), date(2024, 3, 10))
	require.NoError(t, err)
	require.NoError(t, c.OverrideStatus(StatusOpen))
	c.AddPresentation("p1")

	clone := c.Clone()
	require.NoError(t, clone.RequireDocument("Libro Mayor"))
	clone.ClearStatusOverride()
	clone.RemovePresentation("p1")

	require.Empty(t, c.RequiredDocuments())
	require.NotNil(t, c.StatusOverride())
	require.True(t, c.HasPresentations())
	require.False(t, clone.HasPresentations())
}

func TestHydrate(t *testing.T) {
	docs := checklist.NewRestricted(checklist.BaseCatalog)
	require.NoError(t, docs.RequireDocument("Arqueo de Caja"))
	closed := StatusClosed

	c, err := Hydrate("c1", date(2024, 3, 1), date(2024, 3, 10), "x", docs, &closed)
	require.NoError(t, err)
	require.Equal(t, []string{"Arqueo de Caja"}, c.RequiredDocuments())
	require.Equal(t, StatusClosed, c.Status(date(2024, 3, 5)))

	_, err = Hydrate("c1", date(2024, 3, 1), date(2024, 3, 10), "x", checklist.NewFreeForm(nil), nil)
	require.ErrorIs(t, err, serrors.ErrValidation)
}
