package campaign

import "fmt"

// Kind names one of the eight scalar statistics of a campaign.
type Kind int

const (
	RoomMean Kind = iota
	RoomGeoMean
	RoomMedian
	RoomMax
	CellarMean
	CellarGeoMean
	CellarMedian
	CellarMax

	kindCount
)

// Kinds lists every scalar kind in a fixed order.
var Kinds = [kindCount]Kind{
	RoomMean, RoomGeoMean, RoomMedian, RoomMax,
	CellarMean, CellarGeoMean, CellarMedian, CellarMax,
}

// NumKinds is the number of scalar kinds.
const NumKinds = int(kindCount)

var kindNames = [kindCount]string{
	"room_mean", "room_geo_mean", "room_median", "room_max",
	"cellar_mean", "cellar_geo_mean", "cellar_median", "cellar_max",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown statistic %q", s)
}

// IsCellar reports whether the kind describes the cellar slot.
func (k Kind) IsCellar() bool {
	return k >= CellarMean && k < kindCount
}
