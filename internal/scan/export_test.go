package scan

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nwest/roomscan/internal/capture"
)

var _ = Describe("GeometryExporter", func() {
	var (
		tmpDir   string
		exporter *GeometryExporter
		room     *capture.Room
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		exporter = NewGeometryExporter()
		room = testRoom()
	})

	It("should own the .bin extension", func() {
		Expect(exporter.FileExtension()).To(Equal(".bin"))
	})

	Describe("Export", func() {
		var data []byte

		JustBeforeEach(func() {
			path := filepath.Join(tmpDir, "model.bin")
			Expect(exporter.Export(room, path)).To(Succeed())

			var err error
			data, err = os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should produce non-empty output", func() {
			Expect(data).NotTo(BeEmpty())
		})

		It("should start with the format header", func() {
			Expect(len(data)).To(BeNumerically(">=", 14))
			Expect(data[:4]).To(Equal([]byte("RMGM")))
			Expect(binary.LittleEndian.Uint16(data[4:6])).To(Equal(uint16(1)))
		})

		It("should record the entity counts in the header", func() {
			Expect(binary.LittleEndian.Uint32(data[6:10])).To(Equal(uint32(room.SurfaceCount())))
			Expect(binary.LittleEndian.Uint32(data[10:14])).To(Equal(uint32(len(room.Objects))))
		})

		It("should be deterministic for a fixed room", func() {
			path := filepath.Join(tmpDir, "model-repeat.bin")
			Expect(exporter.Export(room, path)).To(Succeed())

			repeat, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(repeat).To(Equal(data))
		})

		When("the room is empty", func() {
			BeforeEach(func() {
				room = &capture.Room{}
			})

			It("should still write a header with zero counts", func() {
				Expect(binary.LittleEndian.Uint32(data[6:10])).To(BeZero())
				Expect(binary.LittleEndian.Uint32(data[10:14])).To(BeZero())
			})
		})
	})
})
