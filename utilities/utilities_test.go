package utilities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(4)
		require.NoError(t, err)
		assert.Len(t, code, 4)
		assert.Regexp(t, `^\d{4}$`, code)
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "7999*****67", MaskPhone("79991234567"))
	assert.Equal(t, "***", MaskPhone("123"))
}

func TestToDuration(t *testing.T) {
	assert.Equal(t, 10*time.Minute, ToDuration("10m", time.Second))
	assert.Equal(t, time.Second, ToDuration("", time.Second))
	assert.Equal(t, time.Second, ToDuration("soon", time.Second))
	assert.Equal(t, time.Second, ToDuration("-5m", time.Second))
}
