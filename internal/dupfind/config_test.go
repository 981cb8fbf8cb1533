package dupfind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ApplyMaxSizeFlagZeroMeansUnlimited(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyMaxSizeFlag(0)
	assert.Equal(t, uint64(math.MaxUint64), cfg.MaxSize)
}

func TestConfig_ValidateRejectsMinGreaterThanMax(t *testing.T) {
	cfg := NewConfig()
	cfg.MinSize = 100
	cfg.MaxSize = 10
	assert.Error(t, cfg.Validate())
}

func TestConfig_ValidateAllowsMinEqualMax(t *testing.T) {
	cfg := NewConfig()
	cfg.MinSize = 10
	cfg.MaxSize = 10
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ValidateRejectsMultipleActions(t *testing.T) {
	cfg := NewConfig()
	cfg.MakeSymlinks = true
	cfg.MakeHardlinks = true
	assert.Error(t, cfg.Validate())
}

func TestConfig_SetSleepMillisRejectsUnsupportedValue(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetSleepMillis(10))
	assert.Error(t, cfg.SetSleepMillis(7))
}
