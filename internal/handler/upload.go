package handler

import (
	"log/slog"
	"net/http"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/storage"
)

// maxUploadBytes caps a single image upload at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadHandler stores images in the object store. The uploader is nil when
// storage is not configured; the routes then answer 503 instead of the
// server refusing to start.
type UploadHandler struct {
	uploader      *storage.Uploader
	postBucket    string
	galleryBucket string
	logger        *slog.Logger
}

func NewUploadHandler(uploader *storage.Uploader, postBucket, galleryBucket string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader:      uploader,
		postBucket:    postBucket,
		galleryBucket: galleryBucket,
		logger:        logger,
	}
}

func (h *UploadHandler) storageReady(w http.ResponseWriter) bool {
	if h.uploader == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "storage_unavailable",
			Message: "object storage is not configured",
		})
		return false
	}
	return true
}

// HandleUploadPostImage stores one image for a post and returns its URL.
//
// HTTP: POST /api/uploads/post-image (requires auth, multipart field "file")
func (h *UploadHandler) HandleUploadPostImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.postBucket)
}

// HandleUploadGalleryImage stores one image in the gallery bucket.
//
// HTTP: POST /api/uploads/gallery-image (requires auth, multipart field "file")
func (h *UploadHandler) HandleUploadGalleryImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.galleryBucket)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, bucket string) {
	if !h.storageReady(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), bucket, header.Filename, file)
	if err != nil {
		h.logger.Error("upload failed",
			slog.String("bucket", bucket),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// HandleListGallery returns the public URLs of every gallery image.
//
// HTTP: GET /api/gallery
func (h *UploadHandler) HandleListGallery(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	urls, err := h.uploader.ListPublicURLs(r.Context(), h.galleryBucket)
	if err != nil {
		writeError(w, err)
		return
	}
	if urls == nil {
		urls = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"images": urls})
}
