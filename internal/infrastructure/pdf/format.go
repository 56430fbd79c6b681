package pdf

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	frPrinter  = message.NewPrinter(language.French)
	thinSpaces = strings.NewReplacer("\u202f", " ", "\u00a0", " ")
)

// formatQty cantidad con 3 decimales en formato francés: "1 234,500".
// Los espacios finos de CLDR se reemplazan por espacio simple (la fuente helvetica es cp1252).
func formatQty(d decimal.Decimal) string {
	s := frPrinter.Sprint(number.Decimal(d.Round(3).InexactFloat64(), number.Scale(3)))
	return thinSpaces.Replace(s)
}

// formatPercent porcentaje con 2 decimales: "5,00 %".
func formatPercent(d decimal.Decimal) string {
	s := frPrinter.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
	return thinSpaces.Replace(s) + " %"
}
