package domain

import "strconv"

// NaturalLess orders strings treating embedded digit runs as numbers, so
// "G2" sorts before "G10". Ties on numeric value fall back to the raw text.
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		ad, an := leadingRun(a)
		bd, bn := leadingRun(b)

		if an && bn {
			av, _ := strconv.Atoi(ad)
			bv, _ := strconv.Atoi(bd)
			if av != bv {
				return av < bv
			}
		} else if ad != bd {
			return ad < bd
		}

		a = a[len(ad):]
		b = b[len(bd):]
	}
	return len(a) < len(b)
}

// leadingRun splits off the leading maximal run of digits or non-digits.
func leadingRun(s string) (string, bool) {
	digit := isDigit(s[0])
	for i := 1; i < len(s); i++ {
		if isDigit(s[i]) != digit {
			return s[:i], digit
		}
	}
	return s, digit
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
