// Package search genera claves de búsqueda sin acentos ni mayúsculas para el catálogo.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize quita diacríticos, pasa a minúsculas y colapsa espacios: "  Cañón  Azúl" -> "canon azul".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = cases.Lower(language.Und).String(out)
	return strings.Join(strings.Fields(out), " ")
}

// Key concatena y normaliza los campos indexables de un producto.
func Key(fields ...string) string {
	return Normalize(strings.Join(fields, " "))
}
