package schools

// School representa una escuela. Students es la lista de IDs de mascotas
// inscritas; solo la mutan los protocolos enroll/unenroll, nunca un update
// general.
type School struct {
	ID int64

	Name       string
	Location   string
	Headmaster string

	Students []int64
}
