package reports

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	fallbackAccountType   = "Other Credit Facility"
	fallbackAccountStatus = "unknown"
)

//go:embed codes.yaml
var codesYAML []byte

type codeTables struct {
	AccountTypes    map[string]string `yaml:"account_types"`
	AccountStatuses map[string]string `yaml:"account_statuses"`
}

var codes = mustLoadCodeTables()

func mustLoadCodeTables() codeTables {
	var tables codeTables
	if err := yaml.Unmarshal(codesYAML, &tables); err != nil {
		panic(fmt.Sprintf("reports: decode codes.yaml: %v", err))
	}
	return tables
}

// accountTypeLabel maps a bureau account-type code to its canonical label.
// Unrecognized codes map to a fallback label, never an error.
func accountTypeLabel(code string) string {
	if label, ok := codes.AccountTypes[strings.TrimSpace(code)]; ok {
		return label
	}
	return fallbackAccountType
}

// accountStatusLabel maps a bureau account-status code to its canonical label.
func accountStatusLabel(code string) string {
	if label, ok := codes.AccountStatuses[strings.TrimSpace(code)]; ok {
		return label
	}
	return fallbackAccountStatus
}
