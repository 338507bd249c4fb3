package domain

import "time"

// Legal-request status names. The Portuguese values are the stored and
// wire-visible statuses the frontend already knows.
const (
	StatusPending    = "Pendente"
	StatusInProgress = "Em Andamento"
	StatusConcluded  = "Concluída"
	StatusCancelled  = "Cancelada"
)

// knownStatuses is the closed set accepted on status changes.
var knownStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusConcluded:  {},
	StatusCancelled:  {},
}

// IsKnownStatus reports whether name is one of the defined request statuses.
func IsKnownStatus(name string) bool {
	_, ok := knownStatuses[name]
	return ok
}

// Request is a legal-case request (solicitação) handled by a correspondent.
type Request struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"usuarioId"`
	CorrespondentID *int64     `json:"correspondenteId,omitempty"`
	Subject         string     `json:"assunto"`
	Observation     string     `json:"observacao,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"dataSolicitacao"`
	ConcludedAt     *time.Time `json:"dataConclusao,omitempty"`
}

// StatusChangeAllowed reports whether a caller holding the given roles may
// move this request to another status. Once a request is concluded, only
// admins and lawyers may reopen or otherwise change it.
func (r *Request) StatusChangeAllowed(roles []string) bool {
	if r.Status != StatusConcluded {
		return true
	}
	for _, role := range roles {
		if role == RoleAdmin || role == RoleLawyer {
			return true
		}
	}
	return false
}
