package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/xid"

	"github.com/sakif/shithunt/internal/apperror"
)

// Upload size limits by kind.
const (
	MaxLogoBytes   = 2 << 20 // 2 MB
	MaxBannerBytes = 5 << 20 // 5 MB
)

// extByMIME maps the accepted image content types to the stored file
// extension. Anything outside this map is rejected.
var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadHandler stores product images (logos and banners) on local disk
// under the configured upload directory, and hands back the public URL
// to reference from a submission.
type UploadHandler struct {
	uploadDir string
	logger    *slog.Logger
}

// NewUploadHandler creates an UploadHandler rooted at uploadDir.
func NewUploadHandler(uploadDir string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir, logger: logger}
}

// HandleUpload accepts a multipart form with a "file" part and a "type"
// field ("logo" or "banner"), sniffs the content type from the file's
// first bytes, and writes it under uploadDir/<type>/ with a generated
// name.
//
// POST /api/upload (RequireAuth)
//
// The response is {"url": "/uploads/logo/<id>.png"} — the same-origin
// path the submission form puts into logoUrl or bannerUrl.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Cap the body before multipart parsing buffers it to temp disk. The
	// slack covers boundaries and form fields; the per-kind limit is
	// enforced below once "type" is known.
	r.Body = http.MaxBytesReader(w, r.Body, MaxBannerBytes+512<<10)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, apperror.ValidationFailed("file", "upload too large or malformed"))
		return
	}

	kind := r.FormValue("type")
	var maxBytes int64
	switch kind {
	case "logo":
		maxBytes = MaxLogoBytes
	case "banner":
		maxBytes = MaxBannerBytes
	default:
		writeError(w, apperror.ValidationFailed("type", "type must be logo or banner"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "file is required"))
		return
	}
	defer file.Close()

	if header.Size > maxBytes {
		writeError(w, apperror.ValidationFailed("file",
			fmt.Sprintf("%s must be %d MB or smaller", kind, maxBytes>>20)))
		return
	}

	// Sniff the real content type; the client-declared header is not
	// trusted.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		h.logger.Error("upload: reading file head", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	mime := http.DetectContentType(head[:n])
	ext, ok := extByMIME[mime]
	if !ok {
		writeError(w, apperror.ValidationFailed("file", "file must be a JPEG, PNG, WebP or GIF image"))
		return
	}

	dir := filepath.Join(h.uploadDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.logger.Error("upload: creating directory", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	name := xid.New().String() + ext
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		h.logger.Error("upload: creating file", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	defer dst.Close()

	if _, err := dst.Write(head[:n]); err != nil {
		h.logger.Error("upload: writing file", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	// LimitReader caps the copy in case Size lied about the body length.
	if _, err := io.Copy(dst, io.LimitReader(file, maxBytes-int64(n))); err != nil {
		h.logger.Error("upload: writing file", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.logger.Info("file uploaded",
		slog.String("kind", kind),
		slog.String("name", name),
		slog.String("mime", mime),
	)

	writeJSON(w, http.StatusCreated, map[string]string{
		"url": "/uploads/" + kind + "/" + name,
	})
}
