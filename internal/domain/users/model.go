package users

import (
	"time"

	"medivault/internal/ports/identity"
)

// User es la copia local de una identidad. Registro, login y perfiles
// viven fuera de este servicio; acá solo se guarda lo que el control de
// acceso necesita.
type User struct {
	ID       string
	Email    string
	FullName string
	Role     identity.Role

	// Solo pacientes: MV + 8 dígitos, único.
	PatientCode string

	Active    bool
	CreatedAt time.Time
}

func (u User) Identity() identity.Identity {
	return identity.Identity{
		ID:          u.ID,
		Role:        u.Role,
		FullName:    u.FullName,
		Email:       u.Email,
		PatientCode: u.PatientCode,
		Active:      u.Active,
	}
}
