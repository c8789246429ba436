package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetMapCmd_Exists verifies getMapCmd returns
// a valid command.
func TestGetMapCmd_Exists(t *testing.T) {
	cmd := getMapCmd()
	require.NotNil(t, cmd, "Map command should exist")
	assert.Equal(t, "map", cmd.Use,
		"Command name should be map")
}

// TestGetMapCmd_LimitFlag verifies --limit flag exists.
func TestGetMapCmd_LimitFlag(t *testing.T) {
	cmd := getMapCmd()

	limitFlag := cmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag,
		"--limit flag should exist")
	assert.Equal(t, "0", limitFlag.DefValue,
		"Default should be 0 (all skills)")
}

// TestGetMapCmd_JobsFlag verifies --jobs flag exists.
func TestGetMapCmd_JobsFlag(t *testing.T) {
	cmd := getMapCmd()

	jobsFlag := cmd.Flags().Lookup("jobs")
	require.NotNil(t, jobsFlag,
		"--jobs flag should exist")
	assert.Equal(t, "j", jobsFlag.Shorthand,
		"Short form should be -j")
}

// TestGetMapCmd_LongDescription verifies the command documents
// checkpointing and degraded operation.
func TestGetMapCmd_LongDescription(t *testing.T) {
	cmd := getMapCmd()

	assert.Contains(t, cmd.Long, "checkpoint",
		"Long description should mention checkpointing")
	assert.Contains(t, cmd.Long, "review queue",
		"Long description should mention the review queue")
	assert.Contains(t, cmd.Long, "resume",
		"Long description should mention resuming")
	assert.Contains(t, cmd.Long, "offline",
		"Long description should mention offline fallback")
}

// TestGetMapCmd_HelpText verifies help text content.
func TestGetMapCmd_HelpText(t *testing.T) {
	cmd := getMapCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "--limit",
		"Help should mention --limit flag")
	assert.Contains(t, helpText, "skillmap map --limit 100",
		"Help should show the trial-run example")
}
