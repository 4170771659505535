package services

import "github.com/vsinha/ims/pkg/domain/entities"

// Identifiable is an entity keyed by a non-negative integer id
type Identifiable interface {
	comparable
	ID() int
	SetID(id int) error
}

func indexOf[T Identifiable](entity T, members []T) int {
	for i, m := range members {
		if m == entity {
			return i
		}
	}
	return -1
}

func idInUse[T Identifiable](id int, members []T) bool {
	for _, m := range members {
		if m.ID() == id {
			return true
		}
	}
	return false
}

// LowestUnusedID returns the smallest non-negative id no member holds
func LowestUnusedID[T Identifiable](members []T) int {
	used := make(map[int]bool, len(members))
	for _, m := range members {
		used[m.ID()] = true
	}
	for id := 0; id < len(members); id++ {
		if !used[id] {
			return id
		}
	}
	id := len(members)
	for used[id] {
		id++
	}
	return id
}

// EnsureID gives entity a usable id before it joins members. Nothing happens
// if entity is already a member or its id is non-negative and free; otherwise
// it receives the lowest unused id.
func EnsureID[T Identifiable](entity T, members []T) error {
	if indexOf(entity, members) >= 0 {
		return nil
	}
	if id := entity.ID(); id >= 0 && !idInUse(id, members) {
		return nil
	}
	return entity.SetID(LowestUnusedID(members))
}

// AssertValidIDChange vets changing a member's id to newID
func AssertValidIDChange[T Identifiable](entity T, newID int, members []T) error {
	if newID < 0 {
		return &entities.InvalidKeyError{ID: newID}
	}
	if entity.ID() == newID {
		return nil
	}
	index := indexOf(entity, members)
	if index < 0 {
		return nil
	}
	for i, m := range members {
		if i != index && m.ID() == newID {
			return &entities.DuplicateKeyError{ID: newID}
		}
	}
	return nil
}
