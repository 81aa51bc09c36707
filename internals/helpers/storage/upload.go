package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"afrikticket_backend/internals/constants"
)

const MaxUploadSize = int64(5 * 1024 * 1024)

func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// FormFiles collects files under the given field names ("images", "images[]", ...).
func FormFiles(c *fiber.Ctx, fields ...string) []*multipart.FileHeader {
	if !IsMultipart(c) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var out []*multipart.FileHeader
	for _, f := range fields {
		out = append(out, form.File[f]...)
	}
	return out
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, fmt.Errorf("nil file header")
	}
	if fh.Size > MaxUploadSize {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("File %s too large (max %d MB)", fh.Filename, MaxUploadSize/1024/1024))
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer src.Close()
	return io.ReadAll(src)
}

// File is an upload already read into memory, so services never touch multipart.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

func ReadFile(fh *multipart.FileHeader) (*File, error) {
	if fh == nil {
		return nil, nil
	}
	data, err := readAll(fh)
	if err != nil {
		return nil, err
	}
	return &File{Filename: fh.Filename, ContentType: fh.Header.Get(fiber.HeaderContentType), Data: data}, nil
}

// PutDocument stores pdf/doc/image files as-is.
func PutDocument(ctx context.Context, s Store, bucket string, f *File) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", ErrEmptyPayload
	}
	if constants.DetectFileTypeFromExt(f.Filename) == constants.FileKindUnknown {
		return "", fiber.NewError(fiber.StatusBadRequest, "Unsupported document type (use pdf, doc, docx or an image)")
	}
	ct := f.ContentType
	if ct == "" {
		ct = constants.ContentTypeFromExt(f.Filename)
	}
	return s.Put(ctx, bucket, UniqueFilename(f.Filename), f.Data, ct)
}

// PutImage converts to WebP and stores under bucket.
func PutImage(ctx context.Context, s Store, bucket string, f *File) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", ErrEmptyPayload
	}
	data, err := ConvertToWebP(f.Data, f.Filename, DefaultWebPOptions())
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return s.Put(ctx, bucket, WebPFilename(UniqueFilename(f.Filename)), data, "image/webp")
}

// ReadFiles reads every header; the first failure aborts.
func ReadFiles(files []*multipart.FileHeader) ([]*File, error) {
	out := make([]*File, 0, len(files))
	for _, fh := range files {
		f, err := ReadFile(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// PutImages processes files in parallel. On any failure, already stored
// blobs are removed and the first error is returned.
func PutImages(ctx context.Context, s Store, bucket string, files []*File) ([]string, error) {
	paths := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range files {
		g.Go(func() error {
			p, err := PutImage(gctx, s, bucket, f)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		Cleanup(context.WithoutCancel(ctx), s, paths...)
		return nil, err
	}
	return paths, nil
}
