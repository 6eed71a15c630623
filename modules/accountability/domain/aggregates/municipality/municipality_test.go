package municipality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func TestNew(t *testing.T) {
	m, err := New("m1", " Villa Alegre ", 2)
	require.NoError(t, err)
	require.Equal(t, "Villa Alegre", m.Name())
	require.Equal(t, 2, m.Category())
	require.Empty(t, m.SupervisorID())
	require.Empty(t, m.RepresentativeID())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(strings.Repeat("m", 31), "X", 1)
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = New(strings.Repeat("m", 30), "X", 1)
	require.NoError(t, err)

	_, err = New("m1", "", 1)
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = New("m1", "X", -1)
	var verr *serrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "category", verr.Field)
}

func TestLinksAndClone(t *testing.T) {
	m, err := Hydrate("m1", "X", 1, "a1", "t1")
	require.NoError(t, err)
	require.Equal(t, "a1", m.SupervisorID())
	require.Equal(t, "t1", m.RepresentativeID())

	m.AddPresentation("p1")
	clone := m.Clone()
	clone.ClearRepresentative()
	clone.ClearSupervisor()
	clone.RemovePresentation("p1")

	require.Equal(t, "t1", m.RepresentativeID())
	require.Equal(t, "a1", m.SupervisorID())
	require.Equal(t, []string{"p1"}, m.PresentationIDs())
	require.Empty(t, clone.PresentationIDs())
}
