package schools

import "regexp"

var (
	// name y location admiten alfanuméricos y puntuación limitada.
	alnumCharset = regexp.MustCompile(`^[A-Za-z0-9 ,.'-]+$`)
	// headmaster es solo letras (mismo charset que nombres de mascota).
	letterCharset = regexp.MustCompile(`^[A-Za-z .'-]+$`)
)

func ValidName(s string) bool {
	return len(s) >= 1 && len(s) <= 49 && alnumCharset.MatchString(s)
}

func ValidLocation(s string) bool {
	return len(s) >= 1 && len(s) <= 79 && alnumCharset.MatchString(s)
}

func ValidHeadmaster(s string) bool {
	return len(s) >= 1 && len(s) <= 49 && letterCharset.MatchString(s)
}

func ValidAttributes(name, location, headmaster string) bool {
	return ValidName(name) && ValidLocation(location) && ValidHeadmaster(headmaster)
}
