package scan

import "time"

// Surface category labels written into metadata.json. The set is closed;
// anything the capture subsystem reports outside it maps to CategoryUnknown.
const (
	CategoryWall    = "Wall"
	CategoryDoor    = "Door"
	CategoryWindow  = "Window"
	CategoryFloor   = "Floor"
	CategoryOpening = "Opening"
	CategoryUnknown = "Unknown"
)

// UnknownObjectLabel is the fallback for object category tags outside the
// known label table
const UnknownObjectLabel = "Unknown Object"

// SurfaceRecord is one flattened planar entity. Dimensions are
// width/height/depth in the entity's local frame; Transform is the 4x4
// homogeneous transform flattened column-major.
type SurfaceRecord struct {
	Identifier string      `json:"identifier"`
	Category   string      `json:"category"`
	Dimensions [3]float64  `json:"dimensions"`
	Transform  [16]float64 `json:"transform"`
}

// ObjectRecord is one flattened furniture/fixture entity, same layout
// rules as SurfaceRecord
type ObjectRecord struct {
	Identifier string      `json:"identifier"`
	Category   string      `json:"category"`
	Dimensions [3]float64  `json:"dimensions"`
	Transform  [16]float64 `json:"transform"`
}

// Record is the normalized, serializable result of one completed scan.
// Everything except Name is fixed at creation; Name changes only through
// Store.Rename, which rewrites the metadata file.
type Record struct {
	ID          string          `json:"id"`
	DateCreated time.Time       `json:"dateCreated"`
	Name        string          `json:"name"`
	Walls       []SurfaceRecord `json:"walls"`
	Doors       []SurfaceRecord `json:"doors"`
	Windows     []SurfaceRecord `json:"windows"`
	Floors      []SurfaceRecord `json:"floors"`
	Openings    []SurfaceRecord `json:"openings"`
	Objects     []ObjectRecord  `json:"objects"`
}

// SurfaceCount returns the total number of surface records across all
// five collections
func (r *Record) SurfaceCount() int {
	return len(r.Walls) + len(r.Doors) + len(r.Windows) + len(r.Floors) + len(r.Openings)
}
