package upload

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	errors "github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/transport"
	"github.com/ptnguyen/fundflow/pkg/logger"
)

// maxUploadSize bounds a single multipart request body.
const maxUploadSize = 20 << 20

// Storage is satisfied by the object storage client
type Storage interface {
	Put(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	storage Storage
}

func NewHandler(storage Storage) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		storage:     storage,
	}
}

// UploadSingle accepts one multipart file under the "file" field and
// returns its public URL.
func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.Logger.Error("UploadSingle: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	url, err := h.storage.Put(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.Error("UploadSingle: storage error", "error", err, "filename", header.Filename)
		h.HandleServiceError(w, errors.NewExternalError("object storage is unavailable", errors.ErrCodeStorageFailed, err))
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// UploadMulti accepts several files under the "files" field, uploads
// them concurrently, and returns their public URLs in field order.
func (h *Handler) UploadMulti(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.Logger.Error("UploadMulti: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		h.WriteError(w, http.StatusBadRequest, "files field is required")
		return
	}

	urls := make([]string, len(headers))
	errs := make([]error, len(headers))
	var wg sync.WaitGroup
	for i, header := range headers {
		wg.Add(1)
		go func(i int, header *multipart.FileHeader) {
			defer wg.Done()
			file, err := header.Open()
			if err != nil {
				errs[i] = err
				return
			}
			defer file.Close()
			urls[i], errs[i] = h.storage.Put(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
		}(i, header)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			h.Logger.Error("UploadMulti: storage error", "error", err, "filename", headers[i].Filename)
			h.HandleServiceError(w, errors.NewExternalError("object storage is unavailable", errors.ErrCodeStorageFailed, err))
			return
		}
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{"urls": urls})
}
