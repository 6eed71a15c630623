package seed_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/infrastructure/persistence"
	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
	"github.com/rendiciones/rendiciones/modules/accountability/seed"
	"github.com/rendiciones/rendiciones/modules/accountability/services"
	"github.com/rendiciones/rendiciones/pkg/logging"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func init() {
	user.HashCost = bcrypt.MinCost
}

func newService(t *testing.T) *services.AccountabilityService {
	t.Helper()
	logger := logging.Discard()
	model, err := permissions.NewModel(logger)
	require.NoError(t, err)
	svc, err := services.NewAccountabilityService(context.Background(), services.Config{
		Repository:  persistence.NewGraphRepository(persistence.NewMemoryStore()),
		Permissions: model,
		Logger:      logger,
		Now:         func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func TestApplyDefault(t *testing.T) {
	f, err := seed.Default()
	require.NoError(t, err)

	svc := newService(t)
	sum, err := seed.Apply(context.Background(), svc, f, logging.Discard())
	require.NoError(t, err)
	require.Equal(t, seed.Summary{Bootstrapped: true, Users: 4, Municipalities: 2, Convocations: 1}, sum)

	g, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.NoError(t, g.CheckInvariants())
	m, err := g.Municipality("villa-norte")
	require.NoError(t, err)
	require.Equal(t, "tes-norte", m.RepresentativeID())
	require.Equal(t, "auditor1", m.SupervisorID())

	c, err := g.Convocation("rendicion-anual")
	require.NoError(t, err)
	require.Equal(t, []string{"Libro Diario", "Libro Mayor", "Balance General"}, c.RequiredDocuments())
	require.NotNil(t, c.StatusOverride())
}

func TestApply_RejectsInvalidAssignee(t *testing.T) {
	f, err := seed.Load(strings.NewReader(`
administrator: {id: admin, name: Admin, secret: admin}
users:
  - {id: a1, name: Auditor, secret: pass, role: auditor}
municipalities:
  - {id: m1, name: Villa, representative: a1}
`))
	require.NoError(t, err)

	_, err = seed.Apply(context.Background(), newService(t), f, logging.Discard())
	require.ErrorIs(t, err, serrors.ErrInvalidAssignee)
}

func TestApply_BadDate(t *testing.T) {
	f, err := seed.Load(strings.NewReader(`
administrator: {id: admin, name: Admin, secret: admin}
convocations:
  - {id: c1, opening_date: "01/02/2025", closing_date: "2025-03-01"}
`))
	require.NoError(t, err)

	_, err = seed.Apply(context.Background(), newService(t), f, logging.Discard())
	var verr *serrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "opening_date", verr.Field)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := seed.Load(strings.NewReader("administrator: {id: admin}\nmayors: []\n"))
	require.Error(t, err)
}
