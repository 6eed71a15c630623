package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectForRole(t *testing.T) {
	assert.Equal(t, "role:treasurer", SubjectForRole(" Treasurer "))
	assert.Equal(t, "role:auditor", SubjectForRole("role:auditor"))
	assert.Equal(t, "role:unnamed", SubjectForRole(""))
	assert.Equal(t, "treasurer", RoleFromSubject(SubjectForRole("treasurer")))
}

func TestNormalizeObject(t *testing.T) {
	assert.Equal(t, "presentation", NormalizeObject(" Presentation "))
	assert.Equal(t, "resource", NormalizeObject(""))
}

func TestNormalizeAction(t *testing.T) {
	assert.Equal(t, "close_any", NormalizeAction(" Close_Any "))
	assert.Equal(t, "*", NormalizeAction(""))
}
