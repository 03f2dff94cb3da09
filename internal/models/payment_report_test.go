package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	var report PaymentReport
	report.ComputeTotals(3000)

	assert.Equal(t, 3000.0, report.Net)
	assert.Equal(t, 300.0, report.Utility)
	assert.InDelta(t, 627.0, report.Tax, 0.001)
	assert.InDelta(t, 3927.0, report.Total, 0.001)
}

func TestComputeTotalsZero(t *testing.T) {
	var report PaymentReport
	report.ComputeTotals(0)

	assert.Equal(t, 0.0, report.Net)
	assert.Equal(t, 0.0, report.Total)
}
