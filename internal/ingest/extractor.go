package ingest

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// unitWords are the measure tokens stripped from the front of an ingredient
// line. Mass, volume and informal measures, Portuguese and English.
var unitWords = []string{
	"g", "kg", "mg", "grama", "gramas",
	"ml", "l", "litro", "litros",
	"xícara", "xícaras", "xicara", "xicaras",
	"colher de sopa", "colheres de sopa", "colher de chá", "colheres de chá",
	"colher", "colheres",
	"copo", "copos", "pitada", "pitadas", "dente", "dentes",
	"fatia", "fatias", "lata", "latas", "pacote", "pacotes",
	"unidade", "unidades",
	"cup", "cups", "tablespoon", "tablespoons", "teaspoon", "teaspoons",
	"tbsp", "tbs", "tsp", "oz", "ounce", "ounces", "lb", "lbs", "pound", "pounds",
}

const quantityPattern = `\d+(?:[.,]\d+)?(?:\s+\d+\s*/\s*\d+|\s*/\s*\d+)?`

var (
	leadingQuantityRe = regexp.MustCompile(`^` + quantityPattern + `\s*`)
	leadingUnitRe     = buildUnitRe()
	measureRe         = regexp.MustCompile(`^(` + quantityPattern + `)\s*(.*)$`)
)

func buildUnitRe() *regexp.Regexp {
	words := make([]string, len(unitWords))
	copy(words, unitWords)
	// Longest first, so "gramas" wins over "g".
	sort.Slice(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(words, "|") + `)\.?(?:\s+(?:de|of))?(?:\s+|$)`)
}

// ExtractName strips leading quantity and unit tokens from a free-text
// ingredient line and returns the remainder, trimmed and lower-cased. A line
// that is nothing but quantity and unit tokens yields ""; a line with no
// recognizable tokens comes back as its trimmed, lower-cased self. Extraction
// never fails — an empty result is the caller's error to raise.
func ExtractName(line string) string {
	s := strings.TrimSpace(line)
	for {
		if rest := leadingQuantityRe.ReplaceAllString(s, ""); rest != s {
			s = rest
			continue
		}
		if rest := leadingUnitRe.ReplaceAllString(s, ""); rest != s {
			s = rest
			continue
		}
		break
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseMeasure splits a free-text measure ("1 cup", "200g", "to taste") into
// a numeric quantity and a unit. A measure without a leading number keeps its
// whole text as the unit; an empty measure yields nil for both. A quantity,
// when present, is never negative.
func ParseMeasure(measure string) (quantity *float64, unit *string) {
	m := strings.TrimSpace(measure)
	if m == "" {
		return nil, nil
	}
	match := measureRe.FindStringSubmatch(m)
	if match == nil {
		return nil, &m
	}
	qty := parseNumber(match[1])
	if rest := strings.TrimSpace(match[2]); rest != "" {
		unit = &rest
	}
	return &qty, unit
}

// parseNumber reads "2", "2.5", "2,5", "1/2" and "1 1/2".
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	var whole float64
	if fields := strings.Fields(s); len(fields) == 2 {
		whole, _ = strconv.ParseFloat(fields[0], 64)
		s = fields[1]
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, _ := strconv.ParseFloat(strings.TrimSpace(num), 64)
		b, _ := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if b != 0 {
			return whole + a/b
		}
		return whole + a
	}
	f, _ := strconv.ParseFloat(s, 64)
	return whole + f
}
