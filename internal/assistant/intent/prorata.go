package intent

import (
	"regexp"
	"strconv"
	"strings"

	proratadomain "github.com/smallbiznis/tariffdesk/internal/prorata/domain"
	prorataservice "github.com/smallbiznis/tariffdesk/internal/prorata/service"
)

var (
	commaRe         = regexp.MustCompile(`[،,]`)
	isoDateRe       = regexp.MustCompile(`(20\d{2}-\d{2}-\d{2})`)
	grossAmountRe   = regexp.MustCompile(`(?i)(gross|فاتورة|invoice|كاملة|اجمالي|إجمالي)[^0-9]*([0-9]+(?:\.[0-9]+)?)`)
	monthlyAmountRe = regexp.MustCompile(`(?i)(monthly|شهري|اشتراك|net|صافي|شهرية)[^0-9]*([0-9]+(?:\.[0-9]+)?)`)
)

// ParseProrataIntent extracts an activation date and an amount.
//
// A gross keyword wins when it appears at or after the monthly keyword, so
// "monthly 50 gross 58" is a gross request. A date that is not a real
// calendar day yields no intent.
func ParseProrataIntent(message string) (proratadomain.Request, bool) {
	normalized := commaRe.ReplaceAllString(NormalizeDigits(message), " ")

	dateMatch := isoDateRe.FindStringSubmatch(normalized)
	if dateMatch == nil {
		return nil, false
	}
	activation, err := prorataservice.ParseDate(dateMatch[1])
	if err != nil {
		return nil, false
	}

	gross, grossIdx, hasGross := keywordAmount(grossAmountRe, normalized)
	monthly, monthlyIdx, hasMonthly := keywordAmount(monthlyAmountRe, normalized)

	switch {
	case hasGross && (!hasMonthly || grossIdx >= monthlyIdx):
		return proratadomain.GrossRequest{ActivationDate: activation, FullInvoiceGross: gross}, true
	case hasMonthly:
		return proratadomain.MonthlyRequest{ActivationDate: activation, MonthlyNet: monthly}, true
	default:
		return nil, false
	}
}

func keywordAmount(re *regexp.Regexp, s string) (float64, int, bool) {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s[loc[4]:loc[5]]), 64)
	if err != nil {
		return 0, 0, false
	}
	return value, loc[0], true
}
