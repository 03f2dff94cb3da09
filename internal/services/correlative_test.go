package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelativeScope(t *testing.T) {
	assert.Equal(t, "OT-J01-A", correlativeScope("OT", "J01", "A"))
	assert.Equal(t, "IP-J02-B", correlativeScope("IP", "J02", "B"))
}

func TestNextCorrelativeEmptyScope(t *testing.T) {
	code := nextCorrelative("OT-J01-A", nil, workOrderCodeWidth)
	assert.Equal(t, "OT-J01-A001", code)
}

func TestNextCorrelativeIncrementsHighest(t *testing.T) {
	codes := []string{"OT-J01-A001", "OT-J01-A002", "OT-J01-A007"}
	assert.Equal(t, "OT-J01-A008", nextCorrelative("OT-J01-A", codes, workOrderCodeWidth))
}

func TestNextCorrelativeNeverReusesGaps(t *testing.T) {
	// A001 was deleted; the next code still advances past A003
	codes := []string{"OT-J01-A002", "OT-J01-A003"}
	assert.Equal(t, "OT-J01-A004", nextCorrelative("OT-J01-A", codes, workOrderCodeWidth))
}

func TestNextCorrelativeIgnoresForeignScopes(t *testing.T) {
	// Codes from another prefix or garden share the LIKE prefix but not the
	// exact scope, so their suffixes must not count.
	codes := []string{"OT-J01-AB005", "OT-J01-A002"}
	assert.Equal(t, "OT-J01-A003", nextCorrelative("OT-J01-A", codes, workOrderCodeWidth))
}

func TestNextCorrelativeIgnoresMalformedSuffixes(t *testing.T) {
	codes := []string{"OT-J01-Axyz", "OT-J01-A-1"}
	assert.Equal(t, "OT-J01-A001", nextCorrelative("OT-J01-A", codes, workOrderCodeWidth))
}

func TestNextCorrelativeReportWidth(t *testing.T) {
	assert.Equal(t, "IP-J01-A01", nextCorrelative("IP-J01-A", nil, reportCodeWidth))

	codes := []string{"IP-J01-A09"}
	assert.Equal(t, "IP-J01-A10", nextCorrelative("IP-J01-A", codes, reportCodeWidth))
}

func TestNextCorrelativeWidthOverflow(t *testing.T) {
	// Past 999 the code simply grows a digit
	codes := []string{"OT-J01-A999"}
	assert.Equal(t, "OT-J01-A1000", nextCorrelative("OT-J01-A", codes, workOrderCodeWidth))
}
