package bank

import "strings"

// checksum weights for the ABA routing number algorithm
var routingWeights = [9]int{3, 7, 1, 3, 7, 1, 3, 7, 1}

// NormalizeRoutingNumber strips hyphens and spaces from user input.
func NormalizeRoutingNumber(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

// ValidRoutingNumber reports whether s is a syntactically and
// arithmetically valid US bank routing number: exactly 9 decimal
// digits whose weighted sum is a multiple of 10.
func ValidRoutingNumber(s string) bool {
	if len(s) != 9 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		ch := s[i]
		if ch < '0' || ch > '9' {
			return false
		}
		sum += int(ch-'0') * routingWeights[i]
	}
	return sum%10 == 0
}
