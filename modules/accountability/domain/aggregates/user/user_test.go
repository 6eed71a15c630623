package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func init() {
	HashCost = bcrypt.MinCost
}

func TestNew(t *testing.T) {
	u, err := New(" t1 ", "Tesorera Uno", "s3cret", RoleTreasurer)
	require.NoError(t, err)
	require.Equal(t, "t1", u.ID())
	require.Equal(t, RoleTreasurer, u.Role())
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.SecretHash()), []byte("s3cret")))
	require.False(t, u.CreatedAt().IsZero())
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name   string
		id     string
		uname  string
		secret string
		role   Role
		field  string
	}{
		{"empty id", "", "A", "pass", RoleAuditor, "id"},
		{"long id", "abcdefghijk", "A", "pass", RoleAuditor, "id"},
		{"empty name", "a1", " ", "pass", RoleAuditor, "name"},
		{"bad role", "a1", "A", "pass", Role("mayor"), "role"},
		{"short secret", "a1", "A", "abc", RoleAuditor, "secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.id, tc.uname, tc.secret, tc.role)
			var verr *serrors.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestIDLengthCountsRunes(t *testing.T) {
	_, err := New("ñandúñandú", "Ñ", "pass", RoleAuditor)
	require.NoError(t, err)
}

func TestPresentationBackReferences(t *testing.T) {
	u, err := New("t1", "T", "pass", RoleTreasurer)
	require.NoError(t, err)
	u.AddPresentation("p1")
	u.AddPresentation("p1")
	u.AddPresentation("p2")
	require.Equal(t, []string{"p1", "p2"}, u.PresentationIDs())

	clone := u.Clone()
	clone.RemovePresentation("p1")
	require.Equal(t, []string{"p2"}, clone.PresentationIDs())
	require.Equal(t, []string{"p1", "p2"}, u.PresentationIDs())
}

func TestHydrate(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	u, err := Hydrate("t1", "T", "hash", RoleTreasurer, "m1", created)
	require.NoError(t, err)
	require.Equal(t, "m1", u.MunicipalityID())
	require.Equal(t, "hash", u.SecretHash())
	require.Equal(t, created, u.CreatedAt())
}

func TestNewRole(t *testing.T) {
	r, err := NewRole(" General_Auditor ")
	require.NoError(t, err)
	require.Equal(t, RoleGeneralAuditor, r)

	_, err = NewRole("root")
	require.ErrorIs(t, err, serrors.ErrValidation)
}
