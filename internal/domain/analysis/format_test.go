package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumberLargeValuesGetSeparators(t *testing.T) {
	assert.Equal(t, "1,234.00", FormatNumber(1234))
	assert.Equal(t, "1,234.57", FormatNumber(1234.567))
	assert.Equal(t, "1.00", FormatNumber(1))
	assert.Equal(t, "-2,500.50", FormatNumber(-2500.5))
}

func TestFormatNumberSmallValuesKeepPrecision(t *testing.T) {
	assert.Equal(t, "0.0753", FormatNumber(0.0753))
	assert.Equal(t, "0.0000", FormatNumber(0))
	assert.Equal(t, "-0.5000", FormatNumber(-0.5))
}
