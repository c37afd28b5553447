package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReadsSeparatedEnvVars(t *testing.T) {
	t.Setenv("TOYC_INCLUDE_PATH", "/opt/toyc/include:/vendor/include")
	t.Setenv("TOYC_DEFINE", "DEBUG,VERSION=2")

	e, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"/opt/toyc/include", "/vendor/include"}, e.IncludePath)
	require.Equal(t, []string{"DEBUG", "VERSION=2"}, e.Defines)
}

func TestLoadWithNoEnvVarsIsZero(t *testing.T) {
	e, err := Load()
	require.NoError(t, err)
	require.Empty(t, e.IncludePath)
	require.Empty(t, e.Defines)
}

func TestMergePrependsEnvironmentDefaults(t *testing.T) {
	e := Env{
		IncludePath: []string{"/env/include"},
		Defines:     []string{"ENVDEF=1"},
	}
	includes, defines := e.Merge([]string{"/flag/include"}, []string{"FLAGDEF=2"})
	require.Equal(t, []string{"/env/include", "/flag/include"}, includes)
	require.Equal(t, []string{"ENVDEF=1", "FLAGDEF=2"}, defines)
}
