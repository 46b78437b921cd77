package owners

import "time"

// Profile son los datos de la cuenta dueña. Email y Phone nunca salen por un link compartido.
type Profile struct {
	UserID    string
	FirstName string
	LastName  string
	Location  string
	Email     string
	Phone     string
	UpdatedAt time.Time
}

// PublicName es lo único del dueño que ve quien abre un link compartido.
type PublicName struct {
	FirstName string
	LastName  string
	Location  string
}

func (p Profile) Public() PublicName {
	return PublicName{FirstName: p.FirstName, LastName: p.LastName, Location: p.Location}
}
