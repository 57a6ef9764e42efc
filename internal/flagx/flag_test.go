package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-d", "postgres://x", "-unknown", "v", "-dry-run"}
	got := FilterArgs(args, []string{"-d", "-dry-run"})
	require.Equal(t, []string{"-d", "postgres://x", "-dry-run"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--config=conf.json", "--other=1"}
	got := FilterArgs(args, []string{"--config"})
	require.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-d"})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestPositional_SkipsFlagsAndValues(t *testing.T) {
	args := []string{"-d", "postgres://x", "/data/photos", "-dry-run"}
	got := Positional(args, []string{"-d"})
	require.Equal(t, []string{"/data/photos"}, got)
}

func TestPositional_EqualsFormDoesNotConsumeNext(t *testing.T) {
	args := []string{"-d=postgres://x", "/data/photos"}
	got := Positional(args, []string{"-d"})
	require.Equal(t, []string{"/data/photos"}, got)
}

func TestPositional_BooleanFlagKeepsFollowingArg(t *testing.T) {
	args := []string{"-check", "/data/photos"}
	got := Positional(args, []string{"-d"})
	require.Equal(t, []string{"/data/photos"}, got)
}
