package domain

import "time"

// Correspondent is an external legal correspondent a user of type
// correspondente may be linked to.
type Correspondent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	OAB       string    `json:"oab,omitempty"`
	Type      string    `json:"tipo,omitempty"`
	Email     string    `json:"emailPrimario,omitempty"`
	Phone     string    `json:"telefonePrimario,omitempty"`
	Active    bool      `json:"ativo"`
	CreatedAt time.Time `json:"dataCadastro"`
}
