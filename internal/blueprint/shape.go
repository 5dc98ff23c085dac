package blueprint

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ShapeKind is the wire tag of a zone shape.
type ShapeKind string

const (
	ShapeCircle  ShapeKind = "circle"
	ShapeRect    ShapeKind = "rect"
	ShapePolygon ShapeKind = "polygon"
)

// Shape is the tagged union over zone geometries. Each variant carries
// only the fields that shape actually has, instead of one struct with a
// pile of optionals.
type Shape interface {
	Kind() ShapeKind
}

// Point is a vertex in 0-100 percentage coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Circle is a round zone centered at (CX, CY).
type Circle struct {
	CX float64
	CY float64
	R  float64
}

// Kind returns the circle shape tag.
func (Circle) Kind() ShapeKind { return ShapeCircle }

// Rect is a rectangular zone centered at (CX, CY). W and H are the
// declared extents used by renderers; Radius is the scalar half-extent the
// collision test actually uses (see geometry.PointInZone).
type Rect struct {
	CX     float64
	CY     float64
	W      float64
	H      float64
	Radius float64
}

// Kind returns the rect shape tag.
func (Rect) Kind() ShapeKind { return ShapeRect }

// Polygon is an arbitrary region described by its vertices.
type Polygon struct {
	Points []Point
}

// Kind returns the polygon shape tag.
func (Polygon) Kind() ShapeKind { return ShapePolygon }

// flexFloat tolerates numeric fields arriving as JSON strings. Generated
// blueprints occasionally quote numbers; decoding coerces instead of
// failing the whole document.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(trimmed); err == nil {
		trimmed = strings.TrimSpace(unquoted)
		if trimmed == "" {
			*f = 0
			return nil
		}
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(value)
	return nil
}

// pointWire mirrors Point with coercing numeric decoding.
type pointWire struct {
	X flexFloat `json:"x"`
	Y flexFloat `json:"y"`
}

// zoneWire is the flat wire representation of a zone. The shape tag plus
// the relevant geometric parameters collapse into the Shape union on
// decode.
type zoneWire struct {
	ID             string      `json:"id"`
	Label          string      `json:"label"`
	Description    string      `json:"description,omitempty"`
	Shape          ShapeKind   `json:"shape,omitempty"`
	X              flexFloat   `json:"x,omitempty"`
	Y              flexFloat   `json:"y,omitempty"`
	Center         *pointWire  `json:"center,omitempty"`
	Radius         flexFloat   `json:"radius,omitempty"`
	Width          flexFloat   `json:"width,omitempty"`
	Height         flexFloat   `json:"height,omitempty"`
	Points         []pointWire `json:"points,omitempty"`
	ParentZoneID   string      `json:"parentZoneId,omitempty"`
	ChildZoneIDs   []string    `json:"childZoneIds,omitempty"`
	HierarchyLevel int         `json:"hierarchyLevel,omitempty"`
}

// UnmarshalJSON decodes the flat zone wire format into the tagged shape
// union. Unknown or missing shape tags default to circle, using the
// explicit center when present and (x, y) otherwise.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var wire zoneWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	cx, cy := float64(wire.X), float64(wire.Y)
	if wire.Center != nil {
		cx, cy = float64(wire.Center.X), float64(wire.Center.Y)
	}

	var shape Shape
	switch wire.Shape {
	case ShapePolygon:
		points := make([]Point, len(wire.Points))
		for i, p := range wire.Points {
			points[i] = Point{X: float64(p.X), Y: float64(p.Y)}
		}
		shape = Polygon{Points: points}
	case ShapeRect:
		shape = Rect{
			CX:     cx,
			CY:     cy,
			W:      float64(wire.Width),
			H:      float64(wire.Height),
			Radius: float64(wire.Radius),
		}
	default:
		shape = Circle{CX: cx, CY: cy, R: float64(wire.Radius)}
	}

	*z = Zone{
		ID:             wire.ID,
		Label:          wire.Label,
		Description:    wire.Description,
		Shape:          shape,
		ParentZoneID:   wire.ParentZoneID,
		ChildZoneIDs:   wire.ChildZoneIDs,
		HierarchyLevel: wire.HierarchyLevel,
	}
	return nil
}

// MarshalJSON re-emits the flat zone wire format.
func (z Zone) MarshalJSON() ([]byte, error) {
	wire := zoneWire{
		ID:             z.ID,
		Label:          z.Label,
		Description:    z.Description,
		ParentZoneID:   z.ParentZoneID,
		ChildZoneIDs:   z.ChildZoneIDs,
		HierarchyLevel: z.HierarchyLevel,
	}
	switch shape := z.Shape.(type) {
	case Polygon:
		wire.Shape = ShapePolygon
		wire.Points = make([]pointWire, len(shape.Points))
		for i, p := range shape.Points {
			wire.Points[i] = pointWire{X: flexFloat(p.X), Y: flexFloat(p.Y)}
		}
	case Rect:
		wire.Shape = ShapeRect
		wire.X = flexFloat(shape.CX)
		wire.Y = flexFloat(shape.CY)
		wire.Width = flexFloat(shape.W)
		wire.Height = flexFloat(shape.H)
		wire.Radius = flexFloat(shape.Radius)
	case Circle:
		wire.Shape = ShapeCircle
		wire.X = flexFloat(shape.CX)
		wire.Y = flexFloat(shape.CY)
		wire.Radius = flexFloat(shape.R)
	}
	return json.Marshal(wire)
}
