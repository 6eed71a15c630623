package authz

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultModel is a plain RBAC-without-hierarchy model: a role subject holds
// an action on an object or it does not.
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Config captures all inputs necessary to initialize the Casbin enforcer.
type Config struct {
	// Model is the casbin model text; DefaultModel when empty.
	Model string
	// Policy holds casbin CSV policy lines ("p, role:x, obj, act").
	Policy string
	Logger *logrus.Logger
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Policy) == "" {
		return configError("missing policy")
	}
	return nil
}

func (c Config) normalized() Config {
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModel
	}
	c.Policy = strings.TrimSpace(c.Policy)
	return c
}
