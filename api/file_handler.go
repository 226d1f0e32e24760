package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// uploadLimit caps the body of an image or file upload.
const uploadLimit = 10 << 20

type fileHandler struct {
	responder Responder
	logger    zerolog.Logger
	media     *services.MediaService
	bucket    services.Bucket
}

func newFileHandler(media *services.MediaService, bucket services.Bucket) fileHandler {
	logger := log.With().Str("handlerName", "fileHandler").Logger()
	return fileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		media:     media,
		bucket:    bucket,
	}
}

// upload stores every part of the form field and returns their public URLs.
func (h fileHandler) upload(kind services.MediaKind, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uploads, err := readUploads(w, r, field, uploadLimit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		paths, err := h.media.SaveAll(r.Context(), kind, uploads)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		urls := make([]string, 0, len(paths))
		for _, p := range paths {
			urls = append(urls, h.bucket.URL(p))
		}
		h.logger.Info().Str("kind", string(kind)).Int("count", len(urls)).Msg("stored uploads")
		h.responder.WriteJSON(w, UploadResponse{URL: urls[0], URLs: urls})
	}
}

// readUploads parses a multipart body of at most limit bytes and returns
// every part submitted under field.
func readUploads(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]services.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.NewMaxBodySizeExceededError(tooLarge.Limit)
		}
		return nil, errs.NewMalformedPayloadError("multipart", err)
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, errs.NewMissingRequiredFieldError(field)
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, errs.NewMalformedPayloadError("multipart", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errs.NewMalformedPayloadError("multipart", err)
		}
		uploads = append(uploads, services.Upload{Filename: header.Filename, Data: data})
	}
	return uploads, nil
}

// serveLocal exposes stored uploads of kind from a local storage root.
func serveLocal(r chi.Router, storage *services.LocalStorage, kind services.MediaKind) {
	prefix := "/" + string(kind)
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(storage.Root()+prefix)))
	r.Get(prefix+"/*", fs.ServeHTTP)
}
