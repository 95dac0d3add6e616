package utils

// nipWeights are the checksum weights of a Polish tax ID (NIP)
var nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// ValidNIP reports whether s is ten digits with a valid NIP checksum
func ValidNIP(s string) bool {
	if len(s) != 10 {
		return false
	}

	sum := 0
	for i := 0; i < 10; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		if i < 9 {
			sum += int(c-'0') * nipWeights[i]
		}
	}

	check := sum % 11
	return check != 10 && check == int(s[9]-'0')
}
