package scan

import (
	"time"

	"github.com/nwest/roomscan/internal/capture"
)

// objectLabels maps capture subsystem object tags to the human-readable
// labels written into metadata.json
var objectLabels = map[capture.ObjectCategory]string{
	capture.ObjectStorage:      "Storage",
	capture.ObjectRefrigerator: "Refrigerator",
	capture.ObjectStove:        "Stove",
	capture.ObjectBed:          "Bed",
	capture.ObjectSink:         "Sink",
	capture.ObjectWasherDryer:  "Washer / Dryer",
	capture.ObjectToilet:       "Toilet",
	capture.ObjectBathtub:      "Bathtub",
	capture.ObjectOven:         "Oven",
	capture.ObjectDishwasher:   "Dishwasher",
	capture.ObjectTable:        "Table",
	capture.ObjectSofa:         "Sofa",
	capture.ObjectChair:        "Chair",
	capture.ObjectFireplace:    "Fireplace",
	capture.ObjectTelevision:   "Television",
	capture.ObjectStairs:       "Stairs",
}

// surfaceLabels maps the closed set of surface tags to record categories
var surfaceLabels = map[capture.SurfaceCategory]string{
	capture.SurfaceWall:    CategoryWall,
	capture.SurfaceDoor:    CategoryDoor,
	capture.SurfaceWindow:  CategoryWindow,
	capture.SurfaceFloor:   CategoryFloor,
	capture.SurfaceOpening: CategoryOpening,
}

// ObjectLabel returns the human-readable label for an object category tag,
// falling back to UnknownObjectLabel for tags outside the table
func ObjectLabel(category capture.ObjectCategory) string {
	if label, ok := objectLabels[category]; ok {
		return label
	}
	return UnknownObjectLabel
}

// SurfaceLabel returns the record category for a surface tag, falling back
// to CategoryUnknown for tags outside the closed set
func SurfaceLabel(category capture.SurfaceCategory) string {
	if label, ok := surfaceLabels[category]; ok {
		return label
	}
	return CategoryUnknown
}

// Extract normalizes one completed raw capture result into a Record. It is
// total: every raw entity yields exactly one record entry, whatever its
// category tag. All raw surfaces are pooled and re-bucketed by tag; a
// surface with a tag outside the closed set keeps the bucket of the
// sub-collection it arrived in, with category CategoryUnknown, so counts
// are never silently lost. Traversal order is walls, doors, windows,
// floors, openings, which preserves discovery order within each bucket.
func Extract(room *capture.Room, id, name string, createdAt time.Time) *Record {
	rec := &Record{
		ID:          id,
		DateCreated: createdAt,
		Name:        name,
		Walls:       make([]SurfaceRecord, 0, len(room.Walls)),
		Doors:       make([]SurfaceRecord, 0, len(room.Doors)),
		Windows:     make([]SurfaceRecord, 0, len(room.Windows)),
		Floors:      make([]SurfaceRecord, 0, len(room.Floors)),
		Openings:    make([]SurfaceRecord, 0, len(room.Openings)),
		Objects:     make([]ObjectRecord, 0, len(room.Objects)),
	}

	pool := []struct {
		surfaces []capture.Surface
		fallback *[]SurfaceRecord
	}{
		{room.Walls, &rec.Walls},
		{room.Doors, &rec.Doors},
		{room.Windows, &rec.Windows},
		{room.Floors, &rec.Floors},
		{room.Openings, &rec.Openings},
	}

	for _, src := range pool {
		for _, s := range src.surfaces {
			sr := SurfaceRecord{
				Identifier: s.ID,
				Category:   SurfaceLabel(s.Category),
				Dimensions: [3]float64{s.Dimensions.X, s.Dimensions.Y, s.Dimensions.Z},
				Transform:  s.Transform.Flatten(),
			}
			switch s.Category {
			case capture.SurfaceWall:
				rec.Walls = append(rec.Walls, sr)
			case capture.SurfaceDoor:
				rec.Doors = append(rec.Doors, sr)
			case capture.SurfaceWindow:
				rec.Windows = append(rec.Windows, sr)
			case capture.SurfaceFloor:
				rec.Floors = append(rec.Floors, sr)
			case capture.SurfaceOpening:
				rec.Openings = append(rec.Openings, sr)
			default:
				*src.fallback = append(*src.fallback, sr)
			}
		}
	}

	for _, o := range room.Objects {
		rec.Objects = append(rec.Objects, ObjectRecord{
			Identifier: o.ID,
			Category:   ObjectLabel(o.Category),
			Dimensions: [3]float64{o.Dimensions.X, o.Dimensions.Y, o.Dimensions.Z},
			Transform:  o.Transform.Flatten(),
		})
	}

	return rec
}
