package services

import (
	"garment_tracker/internal/models"
)

// Actor is the authenticated identity attached to a request. Authentication
// happens upstream; the services trust the area/role claim carried here for
// their own precondition checks.
type Actor struct {
	ID                   uint
	Name                 string
	Area                 models.Area
	CanApproveCompletion bool
}

func (a Actor) IsAdmin() bool {
	return a.Area == models.AreaAdmin
}

// IsPrivileged reports whether the actor may complete or delete repositions
// directly.
func (a Actor) IsPrivileged() bool {
	return a.Area == models.AreaAdmin || a.Area == models.AreaEnvios
}

// CanApproveRepositions reports whether the actor may approve or reject a
// pending reposition.
func (a Actor) CanApproveRepositions() bool {
	return a.Area == models.AreaOperaciones || a.Area == models.AreaAdmin || a.Area == models.AreaEnvios
}
