package pets

import "regexp"

// Charset permitido para name y breed: letras, espacio, guion, apóstrofe y punto.
var nameCharset = regexp.MustCompile(`^[A-Za-z .'-]+$`)

func ValidName(s string) bool {
	return len(s) >= 1 && len(s) <= 49 && nameCharset.MatchString(s)
}

func ValidBreed(s string) bool {
	return len(s) >= 1 && len(s) <= 29 && nameCharset.MatchString(s)
}

func ValidAge(n int) bool {
	return n >= 0 && n <= 150
}

// ValidAttributes valida el trío completo (creación y PUT).
func ValidAttributes(name, breed string, age int) bool {
	return ValidName(name) && ValidBreed(breed) && ValidAge(age)
}
