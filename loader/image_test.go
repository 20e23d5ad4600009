package loader_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/loader"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device unplugged")
}

var _ = Describe("Image loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should read a file verbatim", func() {
		path := filepath.Join(tempDir, "prog.bin")
		data := []byte{0x93, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00}
		Expect(os.WriteFile(path, data, 0644)).To(Succeed())

		img, err := loader.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(img.Path).To(Equal(path))
		Expect(img.Data).To(Equal(data))
		Expect(img.Size()).To(Equal(uint64(8)))
	})

	It("should accept an empty file", func() {
		path := filepath.Join(tempDir, "empty.bin")
		Expect(os.WriteFile(path, nil, 0644)).To(Succeed())

		img, err := loader.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(img.Size()).To(BeZero())
	})

	It("should return error for non-existent file", func() {
		_, err := loader.Load(filepath.Join(tempDir, "missing.bin"))
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("should surface reader errors", func() {
		_, err := loader.Read(failingReader{})
		Expect(err).To(MatchError("device unplugged"))
	})

	Describe("Truncate", func() {
		It("should keep images that fit", func() {
			img, err := loader.Read(bytes.NewReader([]byte{1, 2, 3}))
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Truncate(8)).To(Equal([]byte{1, 2, 3}))
		})

		It("should cut images that are too large", func() {
			img, err := loader.Read(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Truncate(4)).To(Equal([]byte{1, 2, 3, 4}))
		})
	})
})
