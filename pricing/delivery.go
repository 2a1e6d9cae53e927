package pricing

import (
	"elbasta-backend/models"
	"elbasta-backend/utils"
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// DefaultStorePoint is the central kitchen in Algiers.
var DefaultStorePoint = Point{Lat: 36.7538, Lon: 3.0588}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(a, b Point) float64 {
	return utils.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// ResolveDeliveryFee returns the fee of the first tier, in stored order, whose
// [Min, Max) band contains distanceKm. ok is false when no tier matches and the
// customer is outside the delivery zone.
func ResolveDeliveryFee(tiers []models.DeliverySetting, distanceKm float64) (fee int, ok bool) {
	for _, tier := range tiers {
		if tier.Contains(distanceKm) {
			return tier.Fee, true
		}
	}
	return 0, false
}
