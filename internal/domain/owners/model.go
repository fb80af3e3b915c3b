package owners

// Owner representa a un dueño registrado. OwnerID es la identidad estable que
// produce el resolver de identidad (externa, única); Pets es la lista de IDs
// de sus mascotas en orden de registro, sin duplicados.
//
// Los dueños se crean lazy en el primer login verificado y nunca se borran.
type Owner struct {
	ID int64

	OwnerID string
	Pets    []int64
}
