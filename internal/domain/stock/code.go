package stock

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCodePrefix se usa cuando la categoría no tiene letras.
const DefaultCodePrefix = "GEN"

const codePrefixLen = 3

var upper = cases.Upper(language.Und)

// CodePrefix toma las primeras 3 letras de la categoría, sin tildes y en mayúscula.
// "Eléctrico" -> "ELE", "acero 60" -> "ACE", "" -> "GEN".
func CodePrefix(category string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, category)
	if err != nil {
		folded = category
	}
	var b strings.Builder
	n := 0
	for _, r := range folded {
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(r)
		n++
		if n == codePrefixLen {
			break
		}
	}
	if n == 0 {
		return DefaultCodePrefix
	}
	return upper.String(b.String())
}

// FormatCode arma el código a partir del prefijo y el consecutivo reservado.
func FormatCode(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}
