package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCustomValidationTags(t *testing.T) {
	t.Parallel()

	v := GetValidator()

	require.NoError(t, v.Var("JAVA_HOME", "env_name"))
	require.NoError(t, v.Var("_private1", "env_name"))
	require.Error(t, v.Var("1BAD", "env_name"))
	require.Error(t, v.Var("WITH-DASH", "env_name"))

	require.NoError(t, v.Var("deps/lib", "rel_path"))
	require.NoError(t, v.Var("a/../b", "rel_path"))
	require.Error(t, v.Var("../escape", "rel_path"))
	require.Error(t, v.Var("/abs/path", "rel_path"))
	require.Error(t, v.Var(".", "rel_path"))

	require.NoError(t, v.Var("https://github.com/example/repo.git", "git_url"))
	require.NoError(t, v.Var("git@github.com:example/repo.git", "git_url"))
	require.NoError(t, v.Var("/srv/git/repo", "git_url"))
	require.NoError(t, v.Var("file:///srv/git/repo", "git_url"))
	require.Error(t, v.Var("https://", "git_url"))
	require.Error(t, v.Var("not a url", "git_url"))

	require.NoError(t, v.Var("debug", "log_level"))
	require.NoError(t, v.Var("WARN", "log_level"))
	require.Error(t, v.Var("loud", "log_level"))
}

func TestExtractLine(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, ExtractLine(nil))
	require.Equal(t, 7, ExtractLine(errString("yaml: line 7: did not find expected key")))
	require.Equal(t, 0, ExtractLine(errString("no position")))
}

type errString string

func (e errString) Error() string { return string(e) }
