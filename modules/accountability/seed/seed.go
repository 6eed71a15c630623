// Package seed loads a YAML fixture of users, municipalities and
// convocations and applies it through the access-controlled service.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rendiciones/rendiciones/modules/accountability/services"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

const dateLayout = "2006-01-02"

type Fixture struct {
	Administrator  Administrator  `yaml:"administrator"`
	Users          []User         `yaml:"users"`
	Municipalities []Municipality `yaml:"municipalities"`
	Convocations   []Convocation  `yaml:"convocations"`
}

type Administrator struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
}

type User struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
	Role   string `yaml:"role"`
}

type Municipality struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Category       int    `yaml:"category"`
	Representative string `yaml:"representative"`
	Supervisor     string `yaml:"supervisor"`
}

type Convocation struct {
	ID                string   `yaml:"id"`
	OpeningDate       string   `yaml:"opening_date"`
	ClosingDate       string   `yaml:"closing_date"`
	Description       string   `yaml:"description"`
	RequiredDocuments []string `yaml:"required_documents"`
	// Status is open, closed or empty for the date window.
	Status string `yaml:"status"`
}

// Summary counts what Apply created.
type Summary struct {
	Bootstrapped   bool
	Users          int
	Municipalities int
	Convocations   int
}

func Load(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, errors.Wrap(err, "decode seed fixture")
	}
	return &f, nil
}

func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed fixture")
	}
	defer file.Close()
	return Load(file)
}

// Apply creates the fixture's entities acting as its administrator. The
// administrator is bootstrapped when the graph has no users yet.
func Apply(ctx context.Context, svc *services.AccountabilityService, f *Fixture, logger *logrus.Logger) (Summary, error) {
	var sum Summary
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithField("component", "seed")
	actor := f.Administrator.ID

	g, err := svc.Snapshot(ctx)
	if err != nil {
		return sum, err
	}
	if len(g.Users()) == 0 {
		if _, err := svc.Bootstrap(ctx, services.BootstrapDTO{
			ID:     f.Administrator.ID,
			Name:   f.Administrator.Name,
			Secret: f.Administrator.Secret,
		}); err != nil {
			return sum, errors.Wrap(err, "bootstrap administrator")
		}
		sum.Bootstrapped = true
		log.WithField("user", actor).Info("bootstrapped administrator")
	}

	for _, u := range f.Users {
		if _, err := svc.CreateUser(ctx, actor, services.CreateUserDTO{
			ID: u.ID, Name: u.Name, Secret: u.Secret, Role: u.Role,
		}); err != nil {
			return sum, errors.Wrapf(err, "user %s", u.ID)
		}
		sum.Users++
	}

	for _, m := range f.Municipalities {
		if _, err := svc.CreateMunicipality(ctx, actor, services.CreateMunicipalityDTO{
			ID: m.ID, Name: m.Name, Category: m.Category,
		}); err != nil {
			return sum, errors.Wrapf(err, "municipality %s", m.ID)
		}
		if m.Representative != "" {
			if err := svc.AssignRepresentative(ctx, actor, m.ID, m.Representative); err != nil {
				return sum, errors.Wrapf(err, "municipality %s representative", m.ID)
			}
		}
		if m.Supervisor != "" {
			if err := svc.AssignSupervisor(ctx, actor, m.ID, m.Supervisor); err != nil {
				return sum, errors.Wrapf(err, "municipality %s supervisor", m.ID)
			}
		}
		sum.Municipalities++
	}

	for _, c := range f.Convocations {
		opening, err := parseDate("opening_date", c.OpeningDate)
		if err != nil {
			return sum, errors.Wrapf(err, "convocation %s", c.ID)
		}
		closing, err := parseDate("closing_date", c.ClosingDate)
		if err != nil {
			return sum, errors.Wrapf(err, "convocation %s", c.ID)
		}
		if _, err := svc.CreateConvocation(ctx, actor, services.CreateConvocationDTO{
			ID:                c.ID,
			OpeningDate:       opening,
			ClosingDate:       closing,
			Description:       c.Description,
			RequiredDocuments: c.RequiredDocuments,
		}); err != nil {
			return sum, errors.Wrapf(err, "convocation %s", c.ID)
		}
		if c.Status != "" {
			if err := svc.SetConvocationStatus(ctx, actor, c.ID, c.Status); err != nil {
				return sum, errors.Wrapf(err, "convocation %s status", c.ID)
			}
		}
		sum.Convocations++
	}

	log.WithFields(logrus.Fields{
		"users":          sum.Users,
		"municipalities": sum.Municipalities,
		"convocations":   sum.Convocations,
	}).Info("seed applied")
	return sum, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, serrors.NewValidationError("convocation", field, "datetime="+dateLayout)
	}
	return t, nil
}

//go:embed default.yaml
var defaultFixture []byte

// Default returns the demo fixture shipped with the binary.
func Default() (*Fixture, error) {
	return Load(bytes.NewReader(defaultFixture))
}
