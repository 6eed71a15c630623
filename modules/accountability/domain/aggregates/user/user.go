package user

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

const (
	EntityName      = "user"
	MaxIDLength     = 10
	MaxNameLength   = 100
	MinSecretLength = 4
)

// HashCost is the bcrypt cost used for new secrets.
var HashCost = bcrypt.DefaultCost

type User struct {
	id              string
	name            string
	secretHash      string
	role            Role
	municipalityID  string
	presentationIDs []string
	createdAt       time.Time
}

type Option func(*User)

func WithCreatedAt(t time.Time) Option {
	return func(u *User) {
		if !t.IsZero() {
			u.createdAt = t
		}
	}
}

func New(id, name, secret string, role Role, opts ...Option) (*User, error) {
	u := &User{createdAt: time.Now().UTC()}
	if err := u.setID(id); err != nil {
		return nil, err
	}
	if err := u.SetName(name); err != nil {
		return nil, err
	}
	if err := u.SetRole(role); err != nil {
		return nil, err
	}
	if err := u.SetSecret(secret); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Hydrate rebuilds a user from storage. Back-references are rebuilt by the
// graph, not persisted.
func Hydrate(id, name, secretHash string, role Role, municipalityID string, createdAt time.Time) (*User, error) {
	u := &User{
		secretHash:     secretHash,
		municipalityID: strings.TrimSpace(municipalityID),
		createdAt:      createdAt,
	}
	if err := u.setID(id); err != nil {
		return nil, err
	}
	if err := u.SetName(name); err != nil {
		return nil, err
	}
	if err := u.SetRole(role); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) ID() string             { return u.id }
func (u *User) Name() string           { return u.name }
func (u *User) SecretHash() string     { return u.secretHash }
func (u *User) Role() Role             { return u.role }
func (u *User) MunicipalityID() string { return u.municipalityID }
func (u *User) CreatedAt() time.Time   { return u.createdAt }

// PresentationIDs lists the presentations authored by the user.
func (u *User) PresentationIDs() []string {
	return slices.Clone(u.presentationIDs)
}

func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return serrors.NewValidationError(EntityName, "name", "required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return serrors.NewValidationError(EntityName, "name", "max=100")
	}
	u.name = name
	return nil
}

func (u *User) SetSecret(secret string) error {
	if utf8.RuneCountInString(secret) < MinSecretLength {
		return serrors.NewValidationError(EntityName, "secret", "min=4")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return serrors.NewValidationError(EntityName, "secret", err.Error())
	}
	u.secretHash = string(hash)
	return nil
}

func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return serrors.NewValidationError(EntityName, "role", "oneof=administrator general_auditor auditor treasurer")
	}
	u.role = role
	return nil
}

func (u *User) SetMunicipality(id string) { u.municipalityID = id }
func (u *User) ClearMunicipality()        { u.municipalityID = "" }

func (u *User) AddPresentation(id string) {
	if !slices.Contains(u.presentationIDs, id) {
		u.presentationIDs = append(u.presentationIDs, id)
	}
}

func (u *User) RemovePresentation(id string) {
	u.presentationIDs = slices.DeleteFunc(u.presentationIDs, func(p string) bool { return p == id })
}

func (u *User) Clone() *User {
	c := *u
	c.presentationIDs = slices.Clone(u.presentationIDs)
	return &c
}

func (u *User) setID(id string) error {
	id = strings.TrimSpace(id)
	n := utf8.RuneCountInString(id)
	if n == 0 {
		return serrors.NewValidationError(EntityName, "id", "required")
	}
	if n > MaxIDLength {
		return serrors.NewValidationError(EntityName, "id", "max=10")
	}
	u.id = id
	return nil
}
