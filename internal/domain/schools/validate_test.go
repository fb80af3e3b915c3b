package schools

import (
	"strings"
	"testing"
)

func TestValidName(t *testing.T) {
	valid := []string{"Hogwarts", "School 42", "St. Mary's, Annex", "a"}
	for _, s := range valid {
		if !ValidName(s) {
			t.Errorf("ValidName(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "School #42", "School_42", strings.Repeat("a", 50)}
	for _, s := range invalid {
		if ValidName(s) {
			t.Errorf("ValidName(%q) = true, want false", s)
		}
	}
}

func TestValidLocation(t *testing.T) {
	// location tiene tope propio: 79
	if !ValidLocation(strings.Repeat("a", 79)) {
		t.Error("79-char location must be valid")
	}
	if ValidLocation(strings.Repeat("a", 80)) {
		t.Error("80-char location must be invalid")
	}
	if !ValidLocation("221B Baker St.") {
		t.Error("digits are allowed in location")
	}
}

func TestValidHeadmaster(t *testing.T) {
	if !ValidHeadmaster("A. Dumbledore") {
		t.Error("letter name rejected")
	}
	// a diferencia de name/location, sin dígitos
	if ValidHeadmaster("Headm4ster") {
		t.Error("digits are not allowed in headmaster")
	}
	if ValidHeadmaster("") {
		t.Error("empty headmaster must be invalid")
	}
}
