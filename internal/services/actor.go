package services

import "jornada/internal/models"

// Actor is the authenticated identity performing an operation, resolved by
// the transport layer. Services never trust client-supplied user ids.
type Actor struct {
	ID   uint
	Role string
}

func (actor Actor) IsManager() bool {
	return actor.Role == models.RoleManager
}

func (actor Actor) IsWorker() bool {
	return actor.Role == models.RoleWorker
}
