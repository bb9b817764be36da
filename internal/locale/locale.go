// Package locale resolves the formatting conventions used for month and
// weekday labels, dates and money. Nothing here touches process-wide state:
// callers resolve a Formatting once and pass it along.
package locale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultChain is the fallback order used when no preference is configured:
// preferred locale, then a UTF-8 safe fallback, then the minimal default.
var DefaultChain = []string{"pt_BR.UTF-8", "C.UTF-8", "C"}

// Formatting carries the labels and printers of one resolved locale.
type Formatting struct {
	tag        language.Tag
	months     [12]string
	monthsFull [12]string
	weekdays   [7]string
	dateLayout string
	currency   string
	decimalSep string
	groupSep   string
	printer    *message.Printer
}

type table struct {
	months     [12]string
	monthsFull [12]string
	weekdays   [7]string
	dateLayout string
	currency   string
	decimalSep string
	groupSep   string
}

var (
	supported = []language.Tag{language.BrazilianPortuguese, language.AmericanEnglish}
	matcher   = language.NewMatcher(supported)

	tables = map[language.Tag]table{
		language.BrazilianPortuguese: {
			months:     [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"},
			monthsFull: [12]string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho", "Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"},
			weekdays:   [7]string{"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado"},
			dateLayout: "02/01/2006",
			currency:   "R$",
			decimalSep: ",",
			groupSep:   ".",
		},
		language.AmericanEnglish: {
			months:     [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
			monthsFull: [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
			weekdays:   [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
			dateLayout: "01/02/2006",
			currency:   "$",
			decimalSep: ".",
			groupSep:   ",",
		},
	}
)

// Minimal is the last link of every fallback chain.
func Minimal() Formatting {
	return newFormatting(language.AmericanEnglish)
}

// Resolve walks the candidates in order and returns the first one that maps
// to a supported locale. Candidates may be BCP 47 tags ("pt-BR") or POSIX
// locale names ("pt_BR.UTF-8"). "C", "C.UTF-8" and "POSIX" resolve to the
// minimal default. When nothing matches the minimal default is returned.
func Resolve(candidates ...string) Formatting {
	for _, c := range candidates {
		if f, ok := lookup(c); ok {
			return f
		}
	}
	return Minimal()
}

func lookup(candidate string) (Formatting, bool) {
	name := strings.TrimSpace(candidate)
	if name == "" {
		return Formatting{}, false
	}
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToUpper(name) {
	case "C", "POSIX":
		return Minimal(), true
	}

	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return Formatting{}, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Formatting{}, false
	}
	return newFormatting(supported[idx]), true
}

func newFormatting(tag language.Tag) Formatting {
	t := tables[tag]
	return Formatting{
		tag:        tag,
		months:     t.months,
		monthsFull: t.monthsFull,
		weekdays:   t.weekdays,
		dateLayout: t.dateLayout,
		currency:   t.currency,
		decimalSep: t.decimalSep,
		groupSep:   t.groupSep,
		printer:    message.NewPrinter(tag),
	}
}

// Tag returns the resolved language tag.
func (f Formatting) Tag() language.Tag {
	return f.tag
}

// MonthAbbrev returns the abbreviated month label, e.g. "Out".
func (f Formatting) MonthAbbrev(m time.Month) string {
	return f.months[m-1]
}

// MonthName returns the full month name, e.g. "Outubro".
func (f Formatting) MonthName(m time.Month) string {
	return f.monthsFull[m-1]
}

// Weekday returns the full weekday name, e.g. "Segunda-feira".
func (f Formatting) Weekday(d time.Weekday) string {
	return f.weekdays[d]
}

// FormatDate renders a date in the locale's short numeric form.
func (f Formatting) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(f.dateLayout)
}

// FormatMoney renders an amount rounded to cents with the locale's currency
// symbol and digit grouping, e.g. "R$ 4.450,00".
func (f Formatting) FormatMoney(d decimal.Decimal) string {
	digits := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	whole, cents, _ := strings.Cut(digits, ".")
	return f.currency + " " + sign + group(whole, f.groupSep) + f.decimalSep + cents
}

func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

// FormatInt renders an integer with the locale's digit grouping.
func (f Formatting) FormatInt(n int64) string {
	return f.printer.Sprintf("%d", n)
}
