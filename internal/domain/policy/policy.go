// Package policy decide allow/deny con alcance de propiedad. Las mascotas son
// estrictamente owner-scoped; las escuelas no tienen dueño y cualquier caller
// (verificado o no) puede leerlas y mutarlas. La asimetría viene del
// comportamiento de referencia y se preserva a propósito.
package policy

type Action string

const (
	ActionRead   Action = "read"
	ActionMutate Action = "mutate"
)

// AllowPet: solo el dueño puede leer, mutar o borrar su mascota,
// sin importar la acción.
func AllowPet(identity, petOwner string, _ Action) bool {
	return identity != "" && identity == petOwner
}

// AllowSchool: sin scoping de propiedad.
func AllowSchool(_ string, _ Action) bool {
	return true
}

// AllowOwnerDetail: la página de detalle de un dueño solo la ve él mismo.
// El listado de dueños, en cambio, es público.
func AllowOwnerDetail(identity, ownerID string) bool {
	return identity != "" && identity == ownerID
}
