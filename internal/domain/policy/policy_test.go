package policy

import "testing"

func TestAllowPet(t *testing.T) {
	if !AllowPet("Owner1", "Owner1", ActionRead) {
		t.Error("owner must read their own pet")
	}
	if !AllowPet("Owner1", "Owner1", ActionMutate) {
		t.Error("owner must mutate their own pet")
	}
	if AllowPet("Owner2", "Owner1", ActionRead) {
		t.Error("stranger must not read the pet")
	}
	if AllowPet("", "Owner1", ActionRead) {
		t.Error("anonymous caller must not read the pet")
	}
	if AllowPet("", "", ActionRead) {
		t.Error("empty identity must never match an empty owner")
	}
}

func TestAllowSchool(t *testing.T) {
	// Las escuelas son públicas para todo el mundo, incluso anónimos.
	if !AllowSchool("", ActionMutate) {
		t.Error("anonymous caller must be able to mutate schools")
	}
	if !AllowSchool("Owner1", ActionRead) {
		t.Error("any caller must be able to read schools")
	}
}

func TestAllowOwnerDetail(t *testing.T) {
	if !AllowOwnerDetail("Owner1", "Owner1") {
		t.Error("owner must view their own page")
	}
	if AllowOwnerDetail("Owner1", "Owner2") {
		t.Error("owner must not view someone else's page")
	}
	if AllowOwnerDetail("", "") {
		t.Error("anonymous caller must never match")
	}
}
