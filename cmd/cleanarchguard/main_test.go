package main

import (
	"errors"
	"testing"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig([]byte("version: 1\nignore_tests: true\n"))
	require.NoError(t, err)
	require.Equal(t, ".", cfg.Root)

	aliases := layerAliases(cfg)
	require.Equal(t, cleanarch.LayerDomain, aliases["graph"])
	require.Equal(t, cleanarch.LayerApplication, aliases["services"])
	require.Equal(t, cleanarch.LayerInfrastructure, aliases["infrastructure"])
}

func TestParseConfig_CustomAliasesReplaceDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte("aliases:\n  domain: [core]\n"))
	require.NoError(t, err)

	aliases := layerAliases(cfg)
	require.Equal(t, cleanarch.LayerDomain, aliases["core"])
	_, ok := aliases["graph"]
	require.False(t, ok)
}

func TestFilterValidationErrors(t *testing.T) {
	errs := []cleanarch.ValidationError{
		cleanarch.ValidationError(errors.New("cannot import between accountability and shared modules")),
		cleanarch.ValidationError(errors.New("services imports accountability/infrastructure/persistence")),
		cleanarch.ValidationError(errors.New("domain imports services")),
	}
	cfg := &config{
		SharedModules:     []string{"shared"},
		AllowedViolations: []string{"infrastructure/persistence"},
	}

	filtered := filterValidationErrors(errs, cfg)
	require.Len(t, filtered, 1)
	require.Equal(t, "domain imports services", filtered[0].Error())
	require.Nil(t, filterValidationErrors(nil, cfg))
}
