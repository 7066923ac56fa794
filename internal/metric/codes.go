// Package metric maps upstream financial metric names onto the series keys the
// sheet builder consumes.
package metric

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Internal metric codes. Stored metric values are keyed by these.
const (
	CodeRevenueNet           = "REVENUE_NET"
	CodeCostOfGoodsSold      = "COST_OF_GOODS_SOLD"
	CodeGrossProfit          = "GROSS_PROFIT"
	CodeOperatingProfit      = "OPERATING_PROFIT"
	CodeProfitBeforeTax      = "PROFIT_BEFORE_TAX"
	CodeProfitAfterTax       = "PROFIT_AFTER_TAX"
	CodeNetProfit            = "NET_PROFIT"
	CodeTotalAssets          = "TOTAL_ASSETS"
	CodeCurrentAssets        = "CURRENT_ASSETS"
	CodeNonCurrentAssets     = "NON_CURRENT_ASSETS"
	CodeTotalLiabilities     = "TOTAL_LIABILITIES"
	CodeShortTermLiabilities = "SHORT_TERM_LIABILITIES"
	CodeLongTermLiabilities  = "LONG_TERM_LIABILITIES"
	CodeEquity               = "EQUITY"
	CodePaidInCapital        = "PAID_IN_CAPITAL"
	CodeMinorityInterest     = "MINORITY_INTEREST"
	CodeEPSTTM               = "EPS_TTM"
	CodeEPSBasic             = "EPS_BASIC"
	CodeBVPS                 = "BVPS"
	CodePE                   = "PE"
	CodePB                   = "PB"
	CodeROS                  = "ROS"
	CodeROE                  = "ROE"
	CodeROA                  = "ROA"
	CodeGrossMargin          = "GROSS_MARGIN"
	CodeNetMargin            = "NET_MARGIN"
	CodeOutstandingShares    = "OUTSTANDING_SHARES"
	CodeListedShares         = "LISTED_SHARES"
	CodeMarginLoans          = "MARGIN_LOANS"

	// Bank income statement lines.
	CodeNetInterestIncome    = "NET_INTEREST_INCOME"
	CodeOperatingExpenses    = "OPERATING_EXPENSES"
	CodeTotalOperatingIncome = "TOTAL_OPERATING_INCOME"
)

// displayNames maps the upstream provider's Vietnamese line names to codes.
var displayNames = map[string]string{
	"Doanh thu thuần":                           CodeRevenueNet,
	"Doanh thu bán hàng và cung cấp dịch vụ":    CodeRevenueNet,
	"Doanh thu":                                 CodeRevenueNet,
	"Giá vốn hàng bán":                          CodeCostOfGoodsSold,
	"Giá vốn":                                   CodeCostOfGoodsSold,
	"Lợi nhuận gộp":                             CodeGrossProfit,
	"LN thuần từ HĐKD":                          CodeOperatingProfit,
	"Lợi nhuận thuần từ hoạt động kinh doanh":   CodeOperatingProfit,
	"Lợi nhuận trước thuế":                      CodeProfitBeforeTax,
	"LN trước thuế":                             CodeProfitBeforeTax,
	"LNST thu nhập DN":                          CodeProfitAfterTax,
	"Lợi nhuận sau thuế":                        CodeProfitAfterTax,
	"LNST của CĐ cty mẹ":                        CodeNetProfit,
	"Lợi nhuận sau thuế của cổ đông công ty mẹ": CodeNetProfit,

	"Tổng tài sản":            CodeTotalAssets,
	"Tài sản ngắn hạn":        CodeCurrentAssets,
	"Tài sản dài hạn":         CodeNonCurrentAssets,
	"Nợ phải trả":             CodeTotalLiabilities,
	"Nợ ngắn hạn":             CodeShortTermLiabilities,
	"Nợ dài hạn":              CodeLongTermLiabilities,
	"Vốn chủ sở hữu":          CodeEquity,
	"Vốn góp của chủ sở hữu":  CodePaidInCapital,
	"Lợi ích của CĐ thiểu số": CodeMinorityInterest,

	"EPS 4 quý":               CodeEPSTTM,
	"EPS cơ bản":              CodeEPSBasic,
	"BVPS cơ bản":             CodeBVPS,
	"P/E cơ bản":              CodePE,
	"P/B cơ bản":              CodePB,
	"ROS":                     CodeROS,
	"ROEA":                    CodeROE,
	"ROAA":                    CodeROA,
	"Biên lợi nhuận gộp (%)":  CodeGrossMargin,
	"Biên lợi nhuận ròng (%)": CodeNetMargin,

	"Số lượng cổ phiếu lưu hành": CodeOutstandingShares,
	"KLCPLH":                     CodeOutstandingShares,
	"Số lượng cổ phiếu niêm yết": CodeListedShares,
	"KLCPNY":                     CodeListedShares,

	"Thu nhập lãi thuần":       CodeNetInterestIncome,
	"Chi phí hoạt động":        CodeOperatingExpenses,
	"Tổng thu nhập hoạt động":  CodeTotalOperatingIncome,
	"Cho vay nghiệp vụ ký quỹ": CodeMarginLoans,
}

var normalizedNames = func() map[string]string {
	out := make(map[string]string, len(displayNames))
	for name, code := range displayNames {
		out[NormalizeName(name)] = code
	}
	return out
}()

var knownCodes = func() map[string]bool {
	out := make(map[string]bool)
	for _, code := range displayNames {
		out[code] = true
	}
	return out
}()

// NormalizeName lowercases name, strips diacritics, drops everything except
// ASCII letters, digits and spaces, and collapses runs of whitespace.
func NormalizeName(name string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(foldStroke),
		norm.NFC,
	)
	folded, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// foldStroke maps the Vietnamese d with stroke, which has no decomposition.
func foldStroke(r rune) rune {
	switch r {
	case 'đ', 'Đ':
		return 'd'
	}
	return r
}

// ResolveCode maps an upstream metric name to its internal code. It tries an
// exact match, then the trimmed name, then the normalized name. Names that are
// already internal codes resolve to themselves.
func ResolveCode(raw string) (string, bool) {
	if code, ok := displayNames[raw]; ok {
		return code, true
	}
	trimmed := strings.TrimSpace(raw)
	if code, ok := displayNames[trimmed]; ok {
		return code, true
	}
	if knownCodes[strings.ToUpper(trimmed)] {
		return strings.ToUpper(trimmed), true
	}
	code, ok := normalizedNames[NormalizeName(raw)]
	return code, ok
}
