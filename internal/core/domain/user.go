package domain

import "time"

// Authorization roles, derived from the user type code. The values are the
// wire-visible authority strings consumed by the frontend.
const (
	RoleAdmin         = "ROLE_ADMIN"
	RoleLawyer        = "ROLE_ADVOGADO"
	RoleCorrespondent = "ROLE_CORRESPONDENTE"
	RoleUser          = "ROLE_USER"
)

// User type codes as stored on the usuario record.
const (
	TypeAdmin         = 1
	TypeLawyer        = 2
	TypeCorrespondent = 3
)

// User models an authenticated actor in the system. PasswordHash is write-only
// from the API's point of view and never serialized outward.
type User struct {
	ID              int64     `json:"id"`
	Login           string    `json:"login"`
	PasswordHash    string    `json:"-"`
	FullName        string    `json:"nomeCompleto"`
	PrimaryEmail    string    `json:"emailPrincipal,omitempty"`
	Type            int       `json:"tipo"`
	Active          bool      `json:"ativo"`
	CorrespondentID *int64    `json:"correspondenteId,omitempty"`
	CreatedAt       time.Time `json:"dataEntrada"`
}

// RolesForType maps a stored user type code to its authority set. It is the
// single source of truth for role derivation: token issuance and per-request
// identity loading both go through here, so the two can never drift.
//
//	1 → ROLE_ADMIN
//	2 → ROLE_ADVOGADO
//	3 → ROLE_CORRESPONDENTE
//	anything else → ROLE_USER
func RolesForType(tipo int) []string {
	switch tipo {
	case TypeAdmin:
		return []string{RoleAdmin}
	case TypeLawyer:
		return []string{RoleLawyer}
	case TypeCorrespondent:
		return []string{RoleCorrespondent}
	default:
		return []string{RoleUser}
	}
}

// Roles returns the authority set for this user.
func (u *User) Roles() []string {
	return RolesForType(u.Type)
}
