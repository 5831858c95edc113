package poi

import "slices"

// Kind is the display type code of a POI.
type Kind string

const (
	KindActual                Kind = "A" // items at their actual coordinates
	KindUniqueDoggo           Kind = "B"
	KindUniqueDoggoPoints     Kind = "C"
	KindUniqueReqs            Kind = "D"
	KindUniquePoints          Kind = "E"
	KindItemsDoggo            Kind = "F"
	KindItemsDoggoPoints      Kind = "G"
	KindItemsReqs             Kind = "H"
	KindItemsPoints           Kind = "I"
	KindUniqueDoggoPointsNoID Kind = "J"
	KindUniquePointsNoID      Kind = "K"
	KindUniqueReqsNoID        Kind = "L"
	KindItemsPointsNoID       Kind = "M"
	KindItemsReqsNoID         Kind = "N"
	KindItemsDoggoPointsNoID  Kind = "O"
)

var allKinds = []Kind{
	KindActual,
	KindUniqueDoggo,
	KindUniqueDoggoPoints,
	KindUniqueReqs,
	KindUniquePoints,
	KindItemsDoggo,
	KindItemsDoggoPoints,
	KindItemsReqs,
	KindItemsPoints,
	KindUniqueDoggoPointsNoID,
	KindUniquePointsNoID,
	KindUniqueReqsNoID,
	KindItemsPointsNoID,
	KindItemsReqsNoID,
	KindItemsDoggoPointsNoID,
}

// Kinds returns every known kind in code order.
func Kinds() []Kind {
	return slices.Clone(allKinds)
}

// Known reports whether k is one of the fifteen display codes.
func (k Kind) Known() bool {
	return slices.Contains(allKinds, k)
}

// Doggo reports whether the kind draws a secondary icon at the POI offset.
func (k Kind) Doggo() bool {
	switch k {
	case KindUniqueDoggo, KindUniqueDoggoPoints, KindItemsDoggo, KindItemsDoggoPoints,
		KindUniqueDoggoPointsNoID, KindItemsDoggoPointsNoID:
		return true
	}
	return false
}
