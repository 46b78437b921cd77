package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string

	// Nombre visible del usuario si el identity provider lo informa.
	DisplayName string
}
