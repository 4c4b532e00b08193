package enums

import "fmt"

// LedgerSource tags which operation appended a ledger entry.
type LedgerSource string

const (
	LedgerSourceBarrels         LedgerSource = "barrels"
	LedgerSourceBottler         LedgerSource = "bottler"
	LedgerSourceCheckout        LedgerSource = "checkout"
	LedgerSourceCapacityUpgrade LedgerSource = "capacity-upgrade"
	LedgerSourceAdmin           LedgerSource = "admin"
)

var validLedgerSources = []LedgerSource{
	LedgerSourceBarrels,
	LedgerSourceBottler,
	LedgerSourceCheckout,
	LedgerSourceCapacityUpgrade,
	LedgerSourceAdmin,
}

// String implements fmt.Stringer.
func (s LedgerSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LedgerSource.
func (s LedgerSource) IsValid() bool {
	for _, candidate := range validLedgerSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLedgerSource converts raw input into a LedgerSource.
func ParseLedgerSource(value string) (LedgerSource, error) {
	for _, candidate := range validLedgerSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger source %q", value)
}
