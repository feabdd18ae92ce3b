package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	proratadomain "github.com/smallbiznis/tariffdesk/internal/prorata/domain"
	taxservice "github.com/smallbiznis/tariffdesk/internal/tax/service"
)

var ymdRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// YMD formats t as YYYY-MM-DD in UTC.
func YMD(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDate parses a strict YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if !ymdRe.MatchString(raw) {
		return time.Time{}, proratadomain.ErrInvalidDate
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", proratadomain.ErrInvalidDate, err)
	}
	return t, nil
}

// Percent renders a ratio as a percentage with two decimals.
func Percent(ratio float64) string {
	return decimal.NewFromFloat(ratio*100).StringFixed(2) + "%"
}

type scriptLabels struct {
	title      string
	period     string
	counted    string
	percent    string
	monthly    string
	gross      string
	prorata    string
	invoice    string
	coverage   string
	netVAT     string
	grossTotal string
	vatOnly    string
}

var (
	labelsAR = scriptLabels{
		title:      "حساب البروراتا",
		period:     "فترة البروراتا",
		counted:    "الأيام المحتسبة",
		percent:    "النسبة",
		monthly:    "الاشتراك الشهري (صافي)",
		gross:      "قيمة الفاتورة الكاملة (شامل الضريبة)",
		prorata:    "قيمة البروراتا (صافي)",
		invoice:    "تاريخ إصدار الفاتورة",
		coverage:   "تغطية حتى",
		netVAT:     "الضريبة",
		grossTotal: "الإجمالي شامل الضريبة",
		vatOnly:    "ضريبة البروراتا",
	}
	labelsEN = scriptLabels{
		title:      "Pro-rata calculation",
		period:     "Pro-rata period",
		counted:    "Counted days",
		percent:    "Used %",
		monthly:    "Monthly (net)",
		gross:      "Full invoice (incl. VAT)",
		prorata:    "Pro-rata amount (net)",
		invoice:    "Invoice date",
		coverage:   "Coverage until",
		netVAT:     "VAT",
		grossTotal: "Total incl. VAT",
		vatOnly:    "Pro-rata VAT",
	}
)

// BuildScript renders the copy-ready bilingual explanation of r. The block
// for locale comes first, followed by the other language.
func BuildScript(r proratadomain.Result, locale string) string {
	return bilingualBlocks(locale, scriptBlock(r, labelsAR), scriptBlock(r, labelsEN))
}

// FormatOutput renders r using the requested view.
func FormatOutput(r proratadomain.Result, locale string, view proratadomain.OutputView) (string, error) {
	switch view {
	case proratadomain.ViewScript, "":
		return BuildScript(r, locale), nil
	case proratadomain.ViewTotals:
		return bilingualBlocks(locale, totalsBlock(r, labelsAR), totalsBlock(r, labelsEN)), nil
	case proratadomain.ViewVAT:
		return bilingualBlocks(locale, vatBlock(r, labelsAR), vatBlock(r, labelsEN)), nil
	default:
		return "", proratadomain.ErrInvalidView
	}
}

func scriptBlock(r proratadomain.Result, l scriptLabels) string {
	lines := []string{
		l.title,
		line(l.period, r.CycleRangeText),
		line(l.counted, r.ProDaysText),
		line(l.percent, r.PctText),
	}
	if r.FullInvoiceGross != nil {
		lines = append(lines, line(l.gross, "JD "+taxservice.JD(*r.FullInvoiceGross)))
	}
	lines = append(lines,
		line(l.monthly, r.MonthlyNetText),
		line(l.prorata, r.ProrataNetText),
		line(l.invoice, YMD(r.CycleEndUTC)),
		line(l.coverage, YMD(r.NextCycleEndUTC)),
	)
	return strings.Join(lines, "\n")
}

func totalsBlock(r proratadomain.Result, l scriptLabels) string {
	proVAT := taxservice.TaxExclusive(r.ProrataNet, r.VATRate)
	monthlyVAT := taxservice.TaxExclusive(r.MonthlyNet, r.VATRate)
	return strings.Join([]string{
		line(l.period, r.CycleRangeText),
		line(l.counted, r.ProDaysText),
		line(l.prorata, r.ProrataNetText),
		line(l.netVAT, "JD "+taxservice.JD(proVAT)),
		line(l.grossTotal, "JD "+taxservice.JD(r.ProrataNet+proVAT)),
		line(l.monthly, r.MonthlyNetText),
		line(l.grossTotal, "JD "+taxservice.JD(r.MonthlyNet+monthlyVAT)),
	}, "\n")
}

func vatBlock(r proratadomain.Result, l scriptLabels) string {
	proVAT := taxservice.TaxExclusive(r.ProrataNet, r.VATRate)
	return strings.Join([]string{
		line(l.prorata, r.ProrataNetText),
		line(l.vatOnly, "JD "+taxservice.JD(proVAT)),
		line(l.netVAT, Percent(r.VATRate)),
	}, "\n")
}

func line(label, value string) string {
	return label + ": " + value
}

func bilingualBlocks(locale, ar, en string) string {
	if locale == "ar" {
		return ar + "\n\n" + en
	}
	return en + "\n\n" + ar
}
