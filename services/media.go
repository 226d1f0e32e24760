package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MediaKind is the public directory an upload lands in.
type MediaKind string

const (
	MediaImage MediaKind = "images"
	MediaFile  MediaKind = "files"
)

// shardDepth is how many two character directories prefix a stored object.
const shardDepth = 4

// Upload is one file part of a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

// MediaService stores uploads under content addressed keys.
type MediaService struct {
	storage Storage
	logger  zerolog.Logger
}

func NewMediaService(storage Storage) *MediaService {
	return &MediaService{
		storage: storage,
		logger:  log.With().Str("service", "media").Logger(),
	}
}

// ObjectKey derives the storage key for data: kind/ab/cd/ef/01/<md5><ext>.
// Images take the extension of their detected format and are rejected when
// the payload is not an image. Other files keep the uploaded extension.
func ObjectKey(kind MediaKind, filename string, data []byte) (key string, contentType string, err error) {
	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])

	detected := mimetype.Detect(data)
	contentType = detected.String()

	var ext string
	switch kind {
	case MediaImage:
		if !strings.HasPrefix(detected.String(), "image/") {
			return "", "", errs.NewUnprocessableEntityErrorWithField("unsupported image format", "image")
		}
		ext = detected.Extension()
		if ext == "" {
			ext = strings.ToLower(filepath.Ext(filename))
		}
	default:
		ext = strings.ToLower(filepath.Ext(filename))
	}

	parts := make([]string, 0, shardDepth+2)
	parts = append(parts, string(kind))
	for i := 0; i < shardDepth; i++ {
		parts = append(parts, hash[i*2:i*2+2])
	}
	parts = append(parts, hash+ext)
	return path.Join(parts...), contentType, nil
}

// Save stores one upload and returns its public URL. Identical content maps to
// the same key, so an existing object is not written again.
func (m *MediaService) Save(ctx context.Context, kind MediaKind, upload Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", errs.NewBadRequestError("empty " + strings.TrimSuffix(string(kind), "s"))
	}

	key, contentType, err := ObjectKey(kind, upload.Filename, upload.Data)
	if err != nil {
		return "", err
	}

	exists, err := m.storage.Exists(ctx, key)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("check stored object", err)
	}
	if exists {
		m.logger.Debug().Str("key", key).Msg("object already stored")
		return "/" + key, nil
	}

	if err := m.storage.Put(ctx, key, upload.Data, contentType); err != nil {
		return "", errs.NewInternalErrorWithCause("store object", err)
	}
	m.logger.Info().Str("key", key).Int("bytes", len(upload.Data)).Msg("stored object")
	return "/" + key, nil
}

// SaveAll stores uploads concurrently. URLs are returned in input order.
func (m *MediaService) SaveAll(ctx context.Context, kind MediaKind, uploads []Upload) ([]string, error) {
	urls := make([]string, len(uploads))
	g, ctx := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		i, upload := i, upload
		g.Go(func() error {
			url, err := m.Save(ctx, kind, upload)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
