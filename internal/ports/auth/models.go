package auth

// Claims representa la información extraída de la credencial verificada.
// OwnerID es la identidad estable del dueño; opaca para el resto del sistema.
type Claims struct {
	OwnerID string
}
