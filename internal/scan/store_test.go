package scan

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nwest/roomscan/internal/capture"
)

// failingExporter always fails, leaving a metadata-only directory behind
type failingExporter struct {
	err error
}

func (f *failingExporter) Export(room *capture.Room, path string) error {
	return f.err
}

func (f *failingExporter) FileExtension() string {
	return ".bin"
}

var _ = Describe("Store", func() {
	var (
		tmpDir string
		store  *Store
		room   *capture.Room
		record *Record
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		store = NewStore(tmpDir, NewGeometryExporter())
		room = testRoom()
		record = Extract(room, "scan-1", "Living Room", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	})

	Describe("Save", func() {
		var err error

		JustBeforeEach(func() {
			err = store.Save(record, room)
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should write the metadata file", func() {
			Expect(filepath.Join(tmpDir, "Scans", "scan-1", "metadata.json")).To(BeAnExistingFile())
		})

		It("should export the model file", func() {
			Expect(store.ModelPath("scan-1")).To(BeAnExistingFile())
			Expect(store.HasModel("scan-1")).To(BeTrue())
		})

		It("should write exactly the interop field names", func() {
			data, readErr := os.ReadFile(filepath.Join(tmpDir, "Scans", "scan-1", "metadata.json"))
			Expect(readErr).NotTo(HaveOccurred())

			var raw map[string]json.RawMessage
			Expect(json.Unmarshal(data, &raw)).To(Succeed())
			for _, field := range []string{"id", "dateCreated", "name", "walls", "doors", "windows", "floors", "openings", "objects"} {
				Expect(raw).To(HaveKey(field))
			}
		})

		When("the export fails", func() {
			BeforeEach(func() {
				store = NewStore(tmpDir, &failingExporter{err: errors.New("mesh writer broke")})
			})

			It("should return ErrExport with the cause", func() {
				Expect(err).To(MatchError(ErrExport))
				Expect(err.Error()).To(ContainSubstring("mesh writer broke"))
			})

			It("should leave the metadata behind as an incomplete scan", func() {
				Expect(filepath.Join(tmpDir, "Scans", "scan-1", "metadata.json")).To(BeAnExistingFile())
				Expect(store.HasModel("scan-1")).To(BeFalse())
			})
		})

		When("the scan directory cannot be created", func() {
			BeforeEach(func() {
				// occupy the Scans path with a regular file
				Expect(os.WriteFile(filepath.Join(tmpDir, "Scans"), []byte("x"), 0644)).To(Succeed())
			})

			It("should return ErrDirectoryCreation", func() {
				Expect(err).To(MatchError(ErrDirectoryCreation))
			})
		})
	})

	Describe("Load", func() {
		When("the scan was saved", func() {
			BeforeEach(func() {
				Expect(store.Save(record, room)).To(Succeed())
			})

			It("should round-trip the record field for field", func() {
				loaded, err := store.Load("scan-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(loaded).To(Equal(record))
			})
		})

		When("the scan does not exist", func() {
			It("should return ErrDecoding", func() {
				_, err := store.Load("missing")
				Expect(err).To(MatchError(ErrDecoding))
			})
		})

		When("the metadata is malformed", func() {
			BeforeEach(func() {
				dir := store.Dir("scan-bad")
				Expect(os.MkdirAll(dir, 0755)).To(Succeed())
				Expect(os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{not json"), 0644)).To(Succeed())
			})

			It("should return ErrDecoding", func() {
				_, err := store.Load("scan-bad")
				Expect(err).To(MatchError(ErrDecoding))
			})
		})
	})

	Describe("List", func() {
		When("the root does not exist yet", func() {
			It("should return empty, not an error", func() {
				records, err := store.List()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(BeEmpty())
			})
		})

		When("scans were saved", func() {
			BeforeEach(func() {
				older := Extract(room, "scan-old", "Old", time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
				newer := Extract(room, "scan-new", "New", time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
				Expect(store.Save(record, room)).To(Succeed())
				Expect(store.Save(older, room)).To(Succeed())
				Expect(store.Save(newer, room)).To(Succeed())
			})

			It("should return them newest first", func() {
				records, err := store.List()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(3))
				Expect(records[0].ID).To(Equal("scan-new"))
				Expect(records[1].ID).To(Equal("scan-1"))
				Expect(records[2].ID).To(Equal("scan-old"))
			})
		})

		When("a directory has no metadata file", func() {
			BeforeEach(func() {
				Expect(store.Save(record, room)).To(Succeed())
				Expect(os.MkdirAll(store.Dir("scan-in-progress"), 0755)).To(Succeed())
			})

			It("should skip it and still list the rest", func() {
				records, err := store.List()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(1))
				Expect(records[0].ID).To(Equal("scan-1"))
			})
		})

		When("a directory has malformed metadata", func() {
			BeforeEach(func() {
				Expect(store.Save(record, room)).To(Succeed())
				dir := store.Dir("scan-bad")
				Expect(os.MkdirAll(dir, 0755)).To(Succeed())
				Expect(os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{not json"), 0644)).To(Succeed())
			})

			It("should skip it and still list the rest", func() {
				records, err := store.List()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(1))
				Expect(records[0].ID).To(Equal("scan-1"))
			})
		})

		When("a save was interrupted after the metadata write", func() {
			BeforeEach(func() {
				broken := NewStore(tmpDir, &failingExporter{err: errors.New("interrupted")})
				Expect(broken.Save(record, room)).NotTo(Succeed())
			})

			It("should still surface the scan, detectably incomplete", func() {
				records, err := store.List()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(1))
				Expect(records[0].ID).To(Equal("scan-1"))
				Expect(store.HasModel("scan-1")).To(BeFalse())
			})
		})
	})

	Describe("Rename", func() {
		BeforeEach(func() {
			Expect(store.Save(record, room)).To(Succeed())
		})

		It("should persist the new name", func() {
			renamed, err := store.Rename("scan-1", "Master Bedroom")
			Expect(err).NotTo(HaveOccurred())
			Expect(renamed.Name).To(Equal("Master Bedroom"))

			loaded, err := store.Load("scan-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Name).To(Equal("Master Bedroom"))
		})

		It("should leave every other field untouched", func() {
			_, err := store.Rename("scan-1", "Master Bedroom")
			Expect(err).NotTo(HaveOccurred())

			loaded, err := store.Load("scan-1")
			Expect(err).NotTo(HaveOccurred())
			loaded.Name = record.Name
			Expect(loaded).To(Equal(record))
		})

		When("the scan does not exist", func() {
			It("should return ErrDecoding", func() {
				_, err := store.Rename("missing", "Anything")
				Expect(err).To(MatchError(ErrDecoding))
			})
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			Expect(store.Save(record, room)).To(Succeed())
		})

		It("should remove the whole scan directory", func() {
			Expect(store.Delete("scan-1")).To(Succeed())
			Expect(store.Dir("scan-1")).NotTo(BeADirectory())
		})

		It("should be a no-op the second time", func() {
			Expect(store.Delete("scan-1")).To(Succeed())
			Expect(store.Delete("scan-1")).To(Succeed())
		})

		It("should be a no-op for a scan that never existed", func() {
			Expect(store.Delete("missing")).To(Succeed())
		})
	})
})
