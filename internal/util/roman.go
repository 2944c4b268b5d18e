package util

import "regexp"

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

var reRoman = regexp.MustCompile(`[IVXLCDM]+`)

// RomanToInt evaluates a roman numeral with subtractive notation.
// Invalid characters yield 0.
func RomanToInt(s string) int {
	total := 0
	prev := 0
	for i := len(s) - 1; i >= 0; i-- {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	return total
}

// ExtractRoman returns the longest roman-numeral run inside s, or "".
func ExtractRoman(s string) string {
	best := ""
	for _, m := range reRoman.FindAllString(s, -1) {
		if len(m) > len(best) {
			best = m
		}
	}
	return best
}
