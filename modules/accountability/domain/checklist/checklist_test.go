package checklist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func TestRestricted_RejectsNamesOutsideCatalog(t *testing.T) {
	c := NewRestricted(BaseCatalog)
	err := c.RequireDocument("Acta de Directorio")

	var docErr *serrors.InvalidDocumentError
	require.ErrorAs(t, err, &docErr)
	require.True(t, errors.Is(err, serrors.ErrValidation))
	require.Empty(t, c.Flagged())
}

func TestRestricted_ListsWholeCatalog(t *testing.T) {
	c := NewRestricted([]string{"Libro Diario", " Libro Mayor ", "Libro Diario", ""})
	require.Equal(t, []Entry{{Name: "Libro Diario"}, {Name: "Libro Mayor"}}, c.Entries())

	require.NoError(t, c.RequireDocument("Libro Mayor"))
	require.Equal(t, []string{"Libro Mayor"}, c.Flagged())

	require.NoError(t, c.WithdrawDocument("Libro Mayor"))
	require.Len(t, c.Entries(), 2)
	require.Empty(t, c.Flagged())
}

func TestFreeForm_WithdrawCatalogDocumentKeepsEntry(t *testing.T) {
	c := NewFreeForm(BaseCatalog)
	require.NoError(t, c.RequireDocument("Libro Diario"))
	require.True(t, c.IsDelivered("Libro Diario"))

	require.NoError(t, c.WithdrawDocument("Libro Diario"))
	assert.False(t, c.IsDelivered("Libro Diario"))
	assert.True(t, c.Has("Libro Diario"))
}

func TestFreeForm_WithdrawAdditionalDocumentRemovesEntry(t *testing.T) {
	c := NewFreeForm(BaseCatalog)
	require.NoError(t, c.RequireDocument("Nota aclaratoria"))
	require.NoError(t, c.WithdrawDocument("Nota aclaratoria"))
	assert.False(t, c.Has("Nota aclaratoria"))

	err := c.WithdrawDocument("Nota aclaratoria")
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestEmptyNameIsValidationError(t *testing.T) {
	c := NewFreeForm(BaseCatalog)
	require.ErrorIs(t, c.RequireDocument("   "), serrors.ErrValidation)
}

func TestAllRequiredDelivered(t *testing.T) {
	required := NewRestricted(BaseCatalog)
	require.NoError(t, required.RequireDocument("Libro Diario"))
	require.NoError(t, required.RequireDocument("Arqueo de Caja"))

	delivered := NewFreeForm(BaseCatalog)
	for _, name := range required.Flagged() {
		require.NoError(t, delivered.Track(name))
	}
	require.False(t, delivered.AllRequiredDelivered(required))
	require.Equal(t, []string{"Libro Diario", "Arqueo de Caja"}, delivered.Missing(required))

	require.NoError(t, delivered.RequireDocument("Libro Diario"))
	require.False(t, delivered.AllRequiredDelivered(required))

	require.NoError(t, delivered.RequireDocument("Arqueo de Caja"))
	require.NoError(t, delivered.RequireDocument("Anexo"))
	require.True(t, delivered.AllRequiredDelivered(required))
	require.Empty(t, delivered.Missing(required))
}

func TestAllRequiredDelivered_NothingRequired(t *testing.T) {
	require.True(t, NewFreeForm(BaseCatalog).AllRequiredDelivered(NewRestricted(BaseCatalog)))
	require.True(t, NewFreeForm(BaseCatalog).AllRequiredDelivered(nil))
}

func TestTrackDoesNotResetFlag(t *testing.T) {
	c := NewFreeForm(BaseCatalog)
	require.NoError(t, c.RequireDocument("Libro Diario"))
	require.NoError(t, c.Track("Libro Diario"))
	require.True(t, c.IsDelivered("Libro Diario"))
}

func TestHydrate(t *testing.T) {
	c, err := Hydrate(ModeRestricted, BaseCatalog, []Entry{{Name: "Libro Mayor", Flag: true}})
	require.NoError(t, err)
	require.Len(t, c.Entries(), len(BaseCatalog))
	require.Equal(t, []string{"Libro Mayor"}, c.Flagged())

	_, err = Hydrate(ModeRestricted, BaseCatalog, []Entry{{Name: "Otro", Flag: true}})
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = Hydrate("weird", BaseCatalog, nil)
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewFreeForm(BaseCatalog)
	require.NoError(t, c.RequireDocument("Anexo"))
	clone := c.Clone()
	require.NoError(t, clone.WithdrawDocument("Anexo"))
	require.True(t, c.IsDelivered("Anexo"))
	require.False(t, clone.Has("Anexo"))
}
