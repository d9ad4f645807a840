package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, done, err := parseFlags(nil)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "up", opts.command)

	opts, _, err = parseFlags([]string{"--command", "status", "--dsn", "postgres://x"})
	require.NoError(t, err)
	assert.Equal(t, "status", opts.command)
	assert.Equal(t, "postgres://x", opts.dsn)

	_, done, err = parseFlags([]string{"--help"})
	require.NoError(t, err)
	assert.True(t, done)

	_, _, err = parseFlags([]string{"--command", "redo"})
	assert.Error(t, err)

	_, _, err = parseFlags([]string{"extra"})
	assert.Error(t, err)
}
