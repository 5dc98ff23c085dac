// Package geometry provides stateless hit-testing predicates for diagram
// zones. All coordinates are in the 0-100 percentage space used by
// blueprints, so the same tests work regardless of rendered diagram size.
package geometry

import (
	"math"

	"github.com/louisbranch/diagram.games/internal/blueprint"
)

// PointInPolygon reports whether the point lies inside the polygon using
// ray casting. Edges are half-open (yi > y != yj > y) so a ray through a
// shared vertex is not counted twice.
func PointInPolygon(x, y float64, points []blueprint.Point) bool {
	if len(points) < 3 {
		return false
	}
	inside := false
	j := len(points) - 1
	for i := 0; i < len(points); i, j = i+1, i {
		xi, yi := points[i].X, points[i].Y
		xj, yj := points[j].X, points[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInCircle reports whether the point lies within the circle. The
// comparison is on squared distance so no square root is taken.
func PointInCircle(x, y, cx, cy, r float64) bool {
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy <= r*r
}

// PointInZone reports whether the point lies within the zone, dispatching
// on its shape.
//
// Rects are tested as squares centered on the zone origin using the scalar
// radius as a symmetric half-extent. The declared width/height are carried
// for renderers but ignored here, matching the shipped player's collision
// behavior.
func PointInZone(x, y float64, zone blueprint.Zone) bool {
	switch shape := zone.Shape.(type) {
	case blueprint.Polygon:
		return PointInPolygon(x, y, shape.Points)
	case blueprint.Rect:
		half := shape.Radius
		return math.Abs(x-shape.CX) <= half && math.Abs(y-shape.CY) <= half
	case blueprint.Circle:
		return PointInCircle(x, y, shape.CX, shape.CY, shape.R)
	default:
		return false
	}
}

// ZoneAtPoint returns the first zone containing the point, or nil.
//
// When prioritizePolygons is set, polygon zones are tested before all other
// shapes. Polygons drawn over raster diagrams are the most precise hit
// targets, so they win over overlapping circles and rects. Ties within a
// pass break by list order.
func ZoneAtPoint(x, y float64, zones []blueprint.Zone, prioritizePolygons bool) *blueprint.Zone {
	if prioritizePolygons {
		for i := range zones {
			if _, ok := zones[i].Shape.(blueprint.Polygon); !ok {
				continue
			}
			if PointInZone(x, y, zones[i]) {
				return &zones[i]
			}
		}
		for i := range zones {
			if _, ok := zones[i].Shape.(blueprint.Polygon); ok {
				continue
			}
			if PointInZone(x, y, zones[i]) {
				return &zones[i]
			}
		}
		return nil
	}
	for i := range zones {
		if PointInZone(x, y, zones[i]) {
			return &zones[i]
		}
	}
	return nil
}

// ClosestZone returns the zone whose centroid is nearest to the point and
// strictly under maxDistance, or nil. Ties break to the first encountered.
func ClosestZone(x, y float64, zones []blueprint.Zone, maxDistance float64) *blueprint.Zone {
	var closest *blueprint.Zone
	best := maxDistance
	for i := range zones {
		cx, cy := Centroid(zones[i])
		dist := math.Hypot(x-cx, y-cy)
		if dist < best {
			best = dist
			closest = &zones[i]
		}
	}
	return closest
}

// Centroid returns the zone's center point: the explicit center for circles
// and rects, the vertex mean for polygons.
func Centroid(zone blueprint.Zone) (float64, float64) {
	switch shape := zone.Shape.(type) {
	case blueprint.Polygon:
		if len(shape.Points) == 0 {
			return 0, 0
		}
		var sx, sy float64
		for _, p := range shape.Points {
			sx += p.X
			sy += p.Y
		}
		n := float64(len(shape.Points))
		return sx / n, sy / n
	case blueprint.Rect:
		return shape.CX, shape.CY
	case blueprint.Circle:
		return shape.CX, shape.CY
	default:
		return 0, 0
	}
}
