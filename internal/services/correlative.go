package services

import (
	"fmt"
	"strconv"
	"strings"
)

// Correlative code widths. Work orders use three digits (OT-J01-A001),
// payment reports use two (IP-J01-A01).
const (
	workOrderCodeWidth = 3
	reportCodeWidth    = 2
)

// correlativeScope builds the scope prefix shared by every code of a kind,
// garden and contract prefix, e.g. "OT-J01-A".
func correlativeScope(kind, gardenCode, contractPrefix string) string {
	return fmt.Sprintf("%s-%s-%s", kind, gardenCode, contractPrefix)
}

// nextCorrelative returns the next code within a scope: the highest numeric
// suffix among the existing codes plus one, zero padded. Codes whose suffix
// is not a plain number are ignored. Deleted codes are never reused when a
// higher one exists.
func nextCorrelative(scope string, codes []string, width int) string {
	highest := 0
	for _, code := range codes {
		suffix, ok := strings.CutPrefix(code, scope)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n <= 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%0*d", scope, width, highest+1)
}
