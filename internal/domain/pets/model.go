package pets

// SchoolRef es la referencia desnormalizada a la escuela donde está inscrita
// la mascota. Name es un snapshot al momento de inscribir: si la escuela se
// renombra después queda stale (dato de display, no autoridad).
type SchoolRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Pet representa una mascota registrada en el sistema.
// ID lo asigna el store; Owner es inmutable después de crear.
type Pet struct {
	ID int64

	Name  string
	Breed string
	Age   int

	Owner  string     // identidad verificada del dueño
	School *SchoolRef // nil = no inscrita
}
