package types

import "github.com/google/uuid"

// Viewer is the requester on whose behalf a service call runs. The zero
// value is an anonymous viewer.
type Viewer struct {
	UserID  uuid.UUID
	IsStaff bool
}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == uuid.Nil
}

// CanModify reports whether the viewer may change something owned by owner.
func (v Viewer) CanModify(owner uuid.UUID) bool {
	return !v.IsAnonymous() && (v.IsStaff || v.UserID == owner)
}
