package upload_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ptnguyen/fundflow/internal/upload"
)

func TestUpload(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Upload Suite")
}

// Mock storage for testing; Put runs from concurrent goroutines, so the
// recorded state is guarded.
type mockStorage struct {
	mu        sync.Mutex
	filenames []string
	putErr    error
}

func (m *mockStorage) Put(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return "", m.putErr
	}
	m.filenames = append(m.filenames, fileName)
	return "http://localhost:9000/fundflow/" + fileName, nil
}

func multipartRequest(target, field string, filenames []string) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile(field, name)
		Expect(err).ToNot(HaveOccurred())
		_, err = part.Write([]byte("file content for " + name))
		Expect(err).ToNot(HaveOccurred())
	}
	Expect(writer.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

var _ = Describe("UploadHandler", func() {
	var (
		handler *upload.Handler
		storage *mockStorage
	)

	BeforeEach(func() {
		storage = &mockStorage{}
		handler = upload.NewHandler(storage)
	})

	Describe("UploadSingle", func() {
		It("should store the file and return its public URL", func() {
			req := multipartRequest("/api/v1/upload/single", "file", []string{"receipt.png"})
			rec := httptest.NewRecorder()

			handler.UploadSingle(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["url"]).To(Equal("http://localhost:9000/fundflow/receipt.png"))
		})

		It("should reject a request missing the file field", func() {
			req := multipartRequest("/api/v1/upload/single", "other", []string{"receipt.png"})
			rec := httptest.NewRecorder()

			handler.UploadSingle(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map a storage failure to a gateway error", func() {
			storage.putErr = errors.New("connection refused")
			req := multipartRequest("/api/v1/upload/single", "file", []string{"receipt.png"})
			rec := httptest.NewRecorder()

			handler.UploadSingle(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("UploadMulti", func() {
		It("should upload every file and return URLs in field order", func() {
			req := multipartRequest("/api/v1/upload/multi", "files",
				[]string{"a.png", "b.png", "c.png"})
			rec := httptest.NewRecorder()

			handler.UploadMulti(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var resp map[string][]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["urls"]).To(Equal([]string{
				"http://localhost:9000/fundflow/a.png",
				"http://localhost:9000/fundflow/b.png",
				"http://localhost:9000/fundflow/c.png",
			}))
			Expect(storage.filenames).To(ConsistOf("a.png", "b.png", "c.png"))
		})

		It("should reject a request with no files", func() {
			req := multipartRequest("/api/v1/upload/multi", "other", []string{"a.png"})
			rec := httptest.NewRecorder()

			handler.UploadMulti(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should fail the whole batch when any upload fails", func() {
			storage.putErr = errors.New("bucket gone")
			req := multipartRequest("/api/v1/upload/multi", "files", []string{"a.png", "b.png"})
			rec := httptest.NewRecorder()

			handler.UploadMulti(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadGateway))
		})
	})
})
