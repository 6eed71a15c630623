package presentation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/checklist"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func TestNew(t *testing.T) {
	p, err := New("p1", "c1", "t1", "m1", WithRequiredDocuments([]string{"Libro Diario"}))
	require.NoError(t, err)
	require.Equal(t, StatusOpen, p.Status())
	require.True(t, p.IsOpen())
	require.Equal(t, "c1", p.ConvocationID())
	require.Equal(t, "t1", p.AuthorID())
	require.Equal(t, "m1", p.MunicipalityID())
	require.True(t, p.Documents().Has("Libro Diario"))
	require.False(t, p.IsDelivered("Libro Diario"))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(strings.Repeat("p", 101), "c1", "t1", "m1")
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = New("p1", "c1", "", "m1")
	var verr *serrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "author_id", verr.Field)

	_, err = New("p1", "c1", "t1", "m1", WithCreatedAt(time.Now().Add(48*time.Hour)))
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "created_at", verr.Field)

	_, err = New("p1", "c1", "t1", "m1", WithRequiredDocuments([]string{"Libro Diario", "  "}))
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "document", verr.Field)
}

func TestCompleteness(t *testing.T) {
	required := checklist.NewRestricted(checklist.BaseCatalog)
	require.NoError(t, required.RequireDocument("Libro Diario"))

	p, err := New("p1", "c1", "t1", "m1", WithRequiredDocuments(required.Flagged()))
	require.NoError(t, err)
	require.False(t, p.AllRequiredDelivered(required))

	require.NoError(t, p.DeliverDocument("Libro Diario"))
	require.NoError(t, p.DeliverDocument("Carta del Alcalde"))
	require.True(t, p.AllRequiredDelivered(required))

	require.NoError(t, p.WithdrawDocument("Libro Diario"))
	require.True(t, p.Documents().Has("Libro Diario"))
	require.False(t, p.AllRequiredDelivered(required))

	require.NoError(t, p.WithdrawDocument("Carta del Alcalde"))
	require.False(t, p.Documents().Has("Carta del Alcalde"))
}

func TestCloseReopenDetach(t *testing.T) {
	p, err := New("p1", "c1", "t1", "m1")
	require.NoError(t, err)

	clone := p.Clone()
	clone.Close()
	require.Equal(t, StatusClosed, clone.Status())
	require.Equal(t, StatusOpen, p.Status())

	clone.Reopen()
	require.True(t, clone.IsOpen())

	clone.Detach()
	require.Empty(t, clone.ConvocationID())
	require.Empty(t, clone.AuthorID())
	require.Empty(t, clone.MunicipalityID())
	require.Equal(t, "c1", p.ConvocationID())
}

func TestHydrate(t *testing.T) {
	created := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	p, err := Hydrate("p1", created, StatusClosed, "c1", "t1", "m1", nil)
	require.NoError(t, err)
	require.Equal(t, created, p.CreatedAt())
	require.Equal(t, StatusClosed, p.Status())

	_, err = Hydrate("p1", created, Status("draft"), "c1", "t1", "m1", nil)
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = Hydrate("p1", created, StatusOpen, "c1", "t1", "m1", checklist.NewRestricted(nil))
	require.ErrorIs(t, err, serrors.ErrValidation)
}
