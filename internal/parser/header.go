package parser

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// HeaderOptions controls how a header row becomes column names.
type HeaderOptions struct {
	// Normalize lowercases names, folds diacritics and turns spaces into
	// underscores.
	Normalize bool

	// Map renames source header names to canonical keys. It is applied
	// before Normalize and takes precedence over it.
	Map map[string]string
}

// NormalizeHeaders produces the column names for a header row. The first
// cell loses a UTF-8 BOM, every cell is trimmed, Map renames win over
// folding, empty cells become "Unnamed: i" and duplicate names get a ".N"
// suffix so every column stays addressable.
func NormalizeHeaders(h []string, opt HeaderOptions) []string {
	res := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimSpace(strings.TrimPrefix(c, utf8BOM))
		}
		if m, ok := opt.Map[c]; ok {
			c = m
		} else if opt.Normalize {
			c = foldHeader(c)
		}
		if c == "" {
			c = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[c]; dup {
			seen[c] = n + 1
			c = c + "." + strconv.Itoa(n+1)
		} else {
			seen[c] = 0
		}
		res[i] = c
	}
	return res
}

// foldHeader lowercases s, strips diacritics and replaces spaces with
// underscores: "Tržby Celkem" -> "trzby_celkem".
func foldHeader(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}
	return strings.ReplaceAll(strings.ToLower(ascii), " ", "_")
}
