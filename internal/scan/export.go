package scan

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/nwest/roomscan/internal/capture"
)

// ModelExporter writes the binary 3-D model artifact for a completed
// capture. The store treats the output as opaque; the exporter owns the
// file extension.
type ModelExporter interface {
	// Export writes the model for room to path
	Export(room *capture.Room, path string) error

	// FileExtension returns the extension for exported files, including
	// the leading dot
	FileExtension() string
}

const (
	geometryMagic   = "RMGM"
	geometryVersion = uint16(1)
)

// GeometryExporter is the default ModelExporter. It writes a little-endian
// binary blob: magic, version, surface and object counts, then one block
// per entity (id, category tag, three dimensions, sixteen transform
// floats). Surfaces are written in walls, doors, windows, floors,
// openings order.
type GeometryExporter struct{}

// NewGeometryExporter creates a GeometryExporter
func NewGeometryExporter() *GeometryExporter {
	return &GeometryExporter{}
}

// FileExtension returns ".bin"
func (e *GeometryExporter) FileExtension() string {
	return ".bin"
}

// Export writes the room geometry to path
func (e *GeometryExporter) Export(room *capture.Room, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(geometryMagic); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, geometryVersion); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(room.SurfaceCount())); err != nil {
		return fmt.Errorf("writing surface count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(room.Objects))); err != nil {
		return fmt.Errorf("writing object count: %w", err)
	}

	for _, surfaces := range [][]capture.Surface{room.Walls, room.Doors, room.Windows, room.Floors, room.Openings} {
		for _, s := range surfaces {
			if err := writeEntity(w, s.ID, string(s.Category), s.Dimensions, s.Transform); err != nil {
				return err
			}
		}
	}
	for _, o := range room.Objects {
		if err := writeEntity(w, o.ID, string(o.Category), o.Dimensions, o.Transform); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing model file: %w", err)
	}
	return nil
}

func writeEntity(w *bufio.Writer, id, category string, dims capture.Vector3, transform capture.Matrix4) error {
	if err := writeString(w, id); err != nil {
		return fmt.Errorf("writing entity id: %w", err)
	}
	if err := writeString(w, category); err != nil {
		return fmt.Errorf("writing entity category: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, [3]float64{dims.X, dims.Y, dims.Z}); err != nil {
		return fmt.Errorf("writing entity dimensions: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, transform.Flatten()); err != nil {
		return fmt.Errorf("writing entity transform: %w", err)
	}
	return nil
}

func writeString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}
