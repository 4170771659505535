package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/entities"
)

func partsWithIDs(t *testing.T, ids ...int) []*entities.Part {
	t.Helper()
	parts := make([]*entities.Part, 0, len(ids))
	for _, id := range ids {
		p, err := entities.NewInHouse(id, "Part", decimal.NewFromInt(1), 1, 0, 5, 1)
		if err != nil {
			t.Fatalf("Failed to create part: %v", err)
		}
		parts = append(parts, p)
	}
	return parts
}

func TestLowestUnusedID(t *testing.T) {
	testCases := []struct {
		name     string
		ids      []int
		expected int
	}{
		{"empty", nil, 0},
		{"dense", []int{0, 1, 2}, 3},
		{"gap", []int{0, 2, 3}, 1},
		{"unordered", []int{3, 0, 1}, 2},
		{"high ids", []int{5, 6}, 0},
		{"past length", []int{1, 0, 2, 3}, 4},
		{"duplicates fill length", []int{0, 0, 1}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := LowestUnusedID(partsWithIDs(t, tc.ids...))
			if got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestEnsureID(t *testing.T) {
	members := partsWithIDs(t, 0, 1, 3)

	fresh := partsWithIDs(t, entities.UnassignedID)[0]
	if err := EnsureID(fresh, members); err != nil {
		t.Fatalf("EnsureID failed: %v", err)
	}
	if fresh.ID() != 2 {
		t.Errorf("Expected id 2, got %d", fresh.ID())
	}

	free := partsWithIDs(t, 8)[0]
	if err := EnsureID(free, members); err != nil {
		t.Fatalf("EnsureID failed: %v", err)
	}
	if free.ID() != 8 {
		t.Errorf("Expected free id 8 kept, got %d", free.ID())
	}

	taken := partsWithIDs(t, 3)[0]
	if err := EnsureID(taken, members); err != nil {
		t.Fatalf("EnsureID failed: %v", err)
	}
	if taken.ID() != 2 {
		t.Errorf("Expected taken id replaced with 2, got %d", taken.ID())
	}

	member := members[2]
	if err := EnsureID(member, members); err != nil || member.ID() != 3 {
		t.Errorf("Expected member untouched, got id %d err %v", member.ID(), err)
	}
}

func TestAssertValidIDChange(t *testing.T) {
	members := partsWithIDs(t, 0, 1, 2)

	testCases := []struct {
		name      string
		entity    *entities.Part
		newID     int
		expectDup bool
		expectBad bool
	}{
		{"negative", members[0], -1, false, true},
		{"same id", members[1], 1, false, false},
		{"free id", members[1], 9, false, false},
		{"held by other member", members[1], 2, true, false},
		{"non-member", partsWithIDs(t, 7)[0], 0, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := AssertValidIDChange(tc.entity, tc.newID, members)
			var dup *entities.DuplicateKeyError
			var bad *entities.InvalidKeyError
			if got := errors.As(err, &dup); got != tc.expectDup {
				t.Errorf("Expected duplicate=%v, got error %v", tc.expectDup, err)
			}
			if got := errors.As(err, &bad); got != tc.expectBad {
				t.Errorf("Expected invalid=%v, got error %v", tc.expectBad, err)
			}
		})
	}
}
