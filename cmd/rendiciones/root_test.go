package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/pkg/lock"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func init() {
	user.HashCost = bcrypt.MinCost
}

type cli struct {
	envFile string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("BADGER_DIR", filepath.Join(dir, "badger"))
	t.Setenv("LOCK_DRIVER", "local")
	t.Setenv("LOG_LEVEL", "silent")
	t.Setenv("LOG_PATH", "")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("PROMETHEUS_METRICS_ENABLED", "false")
	return &cli{envFile: filepath.Join(dir, "missing.env")}
}

func (c *cli) run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--env-file", c.envFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) ok(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func lines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var res []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		res = append(res, m)
	}
	return res
}

func TestCLI_PresentationLifecycle(t *testing.T) {
	c := newCLI(t)

	sum := lines(t, c.ok(t, "seed"))
	require.Len(t, sum, 1)
	require.Equal(t, true, sum[0]["bootstrapped"])
	require.EqualValues(t, 4, sum[0]["users"])

	p := lines(t, c.ok(t, "presentations", "create", "--as", "tes-norte", "--id", "p1", "--convocation", "rendicion-anual"))
	require.Equal(t, "villa-norte", p[0]["municipality"])
	require.Equal(t, "open", p[0]["status"])

	_, err := c.run("presentations", "close", "p1", "--as", "tes-norte")
	require.ErrorIs(t, err, serrors.ErrPermissionDenied)
	require.Equal(t, exitPermission, exitCode(err))

	for _, doc := range []string{"Libro Diario", "Libro Mayor", "Balance General"} {
		c.ok(t, "presentations", "add-doc", "p1", doc, "--as", "tes-norte")
	}
	c.ok(t, "presentations", "close", "p1", "--as", "tes-norte")

	listed := lines(t, c.ok(t, "presentations", "list", "--as", "auditor1"))
	require.Len(t, listed, 1)
	require.Equal(t, "closed", listed[0]["status"])

	require.Empty(t, lines(t, c.ok(t, "presentations", "list", "--as", "tes-sur")))
}

func TestCLI_UsersScopedList(t *testing.T) {
	c := newCLI(t)
	c.ok(t, "seed")

	require.Len(t, lines(t, c.ok(t, "users", "list", "--as", "admin")), 5)
	own := lines(t, c.ok(t, "users", "list", "--as", "tes-norte"))
	require.Len(t, own, 1)
	require.Equal(t, "tes-norte", own[0]["id"])
	require.Equal(t, "villa-norte", own[0]["municipality"])

	_, err := c.run("users", "bootstrap", "--id", "x", "--name", "X", "--secret", "secret")
	require.Equal(t, exitPermission, exitCode(err))
}

func TestCLI_Assignments(t *testing.T) {
	c := newCLI(t)
	c.ok(t, "seed")

	_, err := c.run("municipalities", "assign-representative", "villa-sur", "auditor1", "--as", "admin")
	require.ErrorIs(t, err, serrors.ErrInvalidAssignee)
	require.Equal(t, exitValidation, exitCode(err))

	c.ok(t, "municipalities", "assign-representative", "villa-sur", "tes-norte", "--as", "admin")
	m := lines(t, c.ok(t, "municipalities", "list", "--as", "tes-norte"))
	require.Len(t, m, 1)
	require.Equal(t, "villa-sur", m[0]["id"])

	_, err = c.run("municipalities", "delete", "ghost", "--as", "admin")
	require.Equal(t, exitNotFound, exitCode(err))
}

func TestCLI_Convocations(t *testing.T) {
	c := newCLI(t)
	c.ok(t, "seed")

	conv := lines(t, c.ok(t, "convocations", "create", "--as", "admin",
		"--id", "c2", "--opening", "2020-01-01", "--closing", "2020-02-01", "--require", "Libro Diario"))
	require.Equal(t, "closed", conv[0]["status"])
	require.Equal(t, []any{"Libro Diario"}, conv[0]["required_documents"])

	c.ok(t, "convocations", "status", "c2", "open", "--as", "admin")
	list := lines(t, c.ok(t, "convocations", "list", "--as", "contralor"))
	require.Len(t, list, 2)

	_, err := c.run("convocations", "create", "--as", "admin", "--id", "c3", "--opening", "01/01/2020", "--closing", "2020-02-01")
	require.Equal(t, exitValidation, exitCode(err))
}

func TestCLI_Export(t *testing.T) {
	c := newCLI(t)
	c.ok(t, "seed")
	c.ok(t, "presentations", "create", "--as", "tes-norte", "--id", "p1", "--convocation", "rendicion-anual")

	out := filepath.Join(t.TempDir(), "reports", "presentations.xlsx")
	c.ok(t, "export", "--as", "auditor1", "--out", out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	wb, err := excelize.OpenReader(f)
	require.NoError(t, err)
	rows, err := wb.GetRows("Presentations")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "p1", rows[1][0])
}

func TestCLI_UsageErrors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("users", "list")
	require.Equal(t, exitUsage, exitCode(err))

	_, err = c.run("users", "list", "--as", "admin", "--bogus")
	require.Equal(t, exitUsage, exitCode(err))

	_, err = c.run("users", "delete", "--as", "admin")
	require.Equal(t, exitUsage, exitCode(err))

	_, err = c.run("migrate")
	require.Equal(t, exitUsage, exitCode(err))
}

func TestCLI_Policy(t *testing.T) {
	c := newCLI(t)
	out := c.ok(t, "policy")
	require.Contains(t, out, ", presentation, close_own_conditional")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{serrors.NewValidationError("user", "id", "required"), exitValidation},
		{serrors.NewInvalidDocumentError("Acta"), exitValidation},
		{serrors.NewInvalidAssigneeError("a1", "represent"), exitValidation},
		{serrors.NewPermissionDeniedError("treasurer", "user", "create", ""), exitPermission},
		{serrors.NewNotFoundError("user", "ghost"), exitNotFound},
		{serrors.NewStorageError("save", "user", io.ErrUnexpectedEOF), exitStorage},
		{fmt.Errorf("acquire: %w", lock.ErrNotAcquired), exitStorage},
		{withCode(exitUsage, io.EOF), exitUsage},
		{io.EOF, exitFailure},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, exitCode(tc.err), "%v", tc.err)
	}
}
