package core

import "strings"

// EntityType is the closed set of topology kinds.
type EntityType uint8

const (
	// TypeUnknown is the zero value and never a valid entity type.
	TypeUnknown EntityType = iota
	TypeVertex
	TypeEdge
	TypeWire
	TypeFace
	TypeShell
	TypeSolid
	TypeCompositeSolid
	TypeCompound
	TypePart

	// NumEntityTypes bounds per-type arrays (index by EntityType).
	NumEntityTypes = int(TypePart) + 1
)

var entityTypeNames = [NumEntityTypes]string{
	TypeUnknown:        "Unknown",
	TypeVertex:         "Vertex",
	TypeEdge:           "Edge",
	TypeWire:           "Wire",
	TypeFace:           "Face",
	TypeShell:          "Shell",
	TypeSolid:          "Solid",
	TypeCompositeSolid: "CompositeSolid",
	TypeCompound:       "Compound",
	TypePart:           "Part",
}

// Valid reports whether t is one of the defined kinds (excluding TypeUnknown).
func (t EntityType) Valid() bool {
	return t > TypeUnknown && int(t) < NumEntityTypes
}

func (t EntityType) String() string {
	if int(t) < NumEntityTypes {
		return entityTypeNames[t]
	}
	return "Invalid"
}

// ParseEntityType resolves a case-insensitive type name.
func ParseEntityType(s string) (EntityType, bool) {
	for i := 1; i < NumEntityTypes; i++ {
		if strings.EqualFold(entityTypeNames[i], s) {
			return EntityType(i), true
		}
	}
	return TypeUnknown, false
}

// EntityTypes returns all valid kinds in declaration order.
func EntityTypes() []EntityType {
	out := make([]EntityType, 0, NumEntityTypes-1)
	for i := 1; i < NumEntityTypes; i++ {
		out = append(out, EntityType(i))
	}
	return out
}
