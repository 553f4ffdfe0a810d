package config

import (
	"testing"

	"btree/btree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Degree)
}

func TestValidateDegree(t *testing.T) {
	cfg := Default()
	cfg.Degree = 1

	err := cfg.Validate()
	assert.ErrorIs(t, err, btree.ErrInvalidDegree)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	cfg.Records = -1
	cfg.KeySpace = 0
	cfg.InsertRatio = 1.5

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "log level")
	assert.Contains(t, msg, "records")
	assert.Contains(t, msg, "key space")
	assert.Contains(t, msg, "insert ratio")
	assert.NotErrorIs(t, err, btree.ErrInvalidDegree)
}

func TestValidateCapsAllocations(t *testing.T) {
	cfg := Default()
	cfg.Records = MaxRecords + 1
	cfg.KeySpace = 100_000_000

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records must be within")
	assert.Contains(t, err.Error(), "key space must be within")

	cfg = Default()
	cfg.Records = MaxRecords
	cfg.KeySpace = MaxKeySpace
	assert.NoError(t, cfg.Validate())
}
