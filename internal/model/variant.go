package model

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

// Variant selects the company-type schema used to lay out a sheet.
type Variant string

const (
	VariantIndustrial Variant = "industrial"
	VariantBank       Variant = "bank"
	VariantSecurities Variant = "securities"
)

// securitiesSymbols lists listed securities brokers.
var securitiesSymbols = []string{
	"SSI", "VND", "HCM", "VCI", "SHS", "MBS", "VIX", "BSC", "CTS", "ORS",
	"TVS", "AGR", "FTS", "BVS", "APS", "DSE", "EVS", "VDS", "TCI", "VIS",
	"WSS", "HBS", "PSI", "SBS", "VNDS",
}

// bankSymbols lists listed commercial banks.
var bankSymbols = []string{
	"VCB", "BID", "CTG", "TCB", "MBB", "ACB", "VPB", "HDB", "STB", "SHB",
	"TPB", "VIB", "LPB", "MSB", "OCB", "EIB", "SSB", "NAB", "ABB", "BAB",
	"BVB", "KLB", "NVB", "PGB", "SGB", "VAB", "VBB",
}

// ParseVariant parses a variant name. The empty string and "auto" are rejected
// so callers can treat them as "detect".
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantIndustrial, VariantBank, VariantSecurities:
		return v, nil
	default:
		return "", eris.Errorf("model: unknown variant %q", s)
	}
}

// IsSecuritiesSymbol reports whether symbol is a known securities company.
func IsSecuritiesSymbol(symbol string) bool {
	return slices.Contains(securitiesSymbols, strings.ToUpper(strings.TrimSpace(symbol)))
}

// IsBankSymbol reports whether symbol is a known bank.
func IsBankSymbol(symbol string) bool {
	return slices.Contains(bankSymbols, strings.ToUpper(strings.TrimSpace(symbol)))
}

// DetectVariant resolves the schema variant once per build. Symbol lists win;
// otherwise a series carrying bank-only metrics selects the bank schema.
func DetectVariant(symbol string, annual AnnualSeries, quarterly QuarterlySeries) Variant {
	switch {
	case IsSecuritiesSymbol(symbol):
		return VariantSecurities
	case IsBankSymbol(symbol):
		return VariantBank
	}
	if len(annual[MetricNetInterestIncome]) > 0 || len(quarterly[MetricNetInterestIncome]) > 0 {
		return VariantBank
	}
	return VariantIndustrial
}
