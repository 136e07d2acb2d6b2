package service

import "github.com/google/uuid"

// OwnerOrStaff lets the author or any staff member mutate a recipe
type OwnerOrStaff struct{}

func (OwnerOrStaff) CanMutate(actorID uuid.UUID, actorIsStaff bool, authorID uuid.UUID) bool {
	return actorIsStaff || actorID == authorID
}
