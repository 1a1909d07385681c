package capture

// Vector3 is a 3-component vector (width/height/depth when used as dimensions)
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Vector4 is one column of a homogeneous transform matrix
type Vector4 struct {
	X float64
	Y float64
	Z float64
	W float64
}

// Matrix4 is a 4x4 homogeneous transform, stored as columns
type Matrix4 struct {
	Columns [4]Vector4
}

// Flatten returns the matrix as 16 floats in column-major order:
// column0.x,y,z,w, column1.x,y,z,w, and so on.
func (m Matrix4) Flatten() [16]float64 {
	var out [16]float64
	for i, c := range m.Columns {
		out[i*4+0] = c.X
		out[i*4+1] = c.Y
		out[i*4+2] = c.Z
		out[i*4+3] = c.W
	}
	return out
}

// Identity returns the identity transform
func Identity() Matrix4 {
	return Matrix4{Columns: [4]Vector4{
		{X: 1},
		{Y: 1},
		{Z: 1},
		{W: 1},
	}}
}

// SurfaceCategory is the category tag the capture subsystem assigns to a
// planar surface. Tags outside the known set may appear as the subsystem
// evolves; consumers must treat those as unknown, never drop them.
type SurfaceCategory string

const (
	SurfaceWall    SurfaceCategory = "wall"
	SurfaceDoor    SurfaceCategory = "door"
	SurfaceWindow  SurfaceCategory = "window"
	SurfaceFloor   SurfaceCategory = "floor"
	SurfaceOpening SurfaceCategory = "opening"
)

// ObjectCategory is the category tag the capture subsystem assigns to a
// detected object (furniture, fixtures).
type ObjectCategory string

const (
	ObjectStorage      ObjectCategory = "storage"
	ObjectRefrigerator ObjectCategory = "refrigerator"
	ObjectStove        ObjectCategory = "stove"
	ObjectBed          ObjectCategory = "bed"
	ObjectSink         ObjectCategory = "sink"
	ObjectWasherDryer  ObjectCategory = "washerDryer"
	ObjectToilet       ObjectCategory = "toilet"
	ObjectBathtub      ObjectCategory = "bathtub"
	ObjectOven         ObjectCategory = "oven"
	ObjectDishwasher   ObjectCategory = "dishwasher"
	ObjectTable        ObjectCategory = "table"
	ObjectSofa         ObjectCategory = "sofa"
	ObjectChair        ObjectCategory = "chair"
	ObjectFireplace    ObjectCategory = "fireplace"
	ObjectTelevision   ObjectCategory = "television"
	ObjectStairs       ObjectCategory = "stairs"
)

// Surface is one raw planar entity as reported by the capture subsystem
type Surface struct {
	ID         string
	Category   SurfaceCategory
	Dimensions Vector3 // width, height, depth in the entity's local frame
	Transform  Matrix4
}

// Object is one raw volumetric entity as reported by the capture subsystem
type Object struct {
	ID         string
	Category   ObjectCategory
	Dimensions Vector3
	Transform  Matrix4
}

// Room is the completed raw result of one capture attempt. The subsystem
// reports surfaces in per-kind sub-collections; each surface still carries
// its own category tag, which is authoritative.
type Room struct {
	Walls    []Surface
	Doors    []Surface
	Windows  []Surface
	Floors   []Surface
	Openings []Surface
	Objects  []Object
}

// SurfaceCount returns the total number of surfaces across all sub-collections
func (r *Room) SurfaceCount() int {
	return len(r.Walls) + len(r.Doors) + len(r.Windows) + len(r.Floors) + len(r.Openings)
}
