package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mlukasik/swift-registry/internal/ingest"
	"github.com/mlukasik/swift-registry/internal/upload/batch"
	"github.com/mlukasik/swift-registry/internal/upload/client"
	"github.com/mlukasik/swift-registry/internal/upload/tracker"
)

// UploadHandler accepts CSV uploads and serves task status queries. Each
// accepted upload is processed by its own background goroutine; the handler
// returns the task id immediately and never awaits the pipeline.
type UploadHandler struct {
	store *tracker.Store
	api   client.SwiftAPI
	dir   string
	log   *zap.Logger
}

// NewUploadHandler creates a handler writing temporary uploads into dir.
func NewUploadHandler(store *tracker.Store, api client.SwiftAPI, dir string, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, api: api, dir: dir, log: log}
}

// Upload handles POST /api/v1/upload/.
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil || file.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file provided",
		})
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Only CSV files are allowed",
		})
	}

	id := uuid.NewString()
	path := filepath.Join(h.dir, id+"_"+filepath.Base(file.Filename))

	if err := c.SaveFile(file, path); err != nil {
		h.log.Error("saving uploaded file failed", zap.String("filename", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error saving file",
		})
	}

	task := h.store.Create(id, file.Filename)
	h.log.Info("upload accepted",
		zap.String("id", id),
		zap.String("filename", file.Filename))

	go h.process(path, id)

	return c.Status(fiber.StatusOK).JSON(task)
}

// process is the background unit of work for one upload. The temporary file
// is removed on every exit path.
func (h *UploadHandler) process(path, id string) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.log.Error("removing temporary file failed", zap.String("path", path), zap.Error(err))
		}
	}()

	h.log.Info("processing upload", zap.String("id", id), zap.String("path", path))
	h.store.MarkProcessing(id, "Processing file...")

	records, err := ingest.ParseFile(path)
	if err != nil {
		h.log.Error("ingestion failed", zap.String("id", id), zap.Error(err))
		h.store.Fail(id, ingestFailureMessage(err))
		return
	}

	h.store.SetTotal(id, len(records), fmt.Sprintf("Parsed %d records. Sending to API...", len(records)))

	coordinator := batch.New(h.api, h.log)
	result, err := coordinator.Submit(context.Background(), records)
	if err != nil {
		h.log.Error("batch submission aborted", zap.String("id", id), zap.Error(err))
		h.store.Fail(id, err.Error())
		return
	}

	h.store.Complete(id, result)
	h.log.Info("upload complete",
		zap.String("id", id),
		zap.Int("successful", result.Successful),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
}

// Get handles GET /api/v1/upload/:id.
func (h *UploadHandler) Get(c fiber.Ctx) error {
	id := c.Params("id")
	task, ok := h.store.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Upload with ID %s not found", id),
		})
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

// List handles GET /api/v1/upload/.
func (h *UploadHandler) List(c fiber.Ctx) error {
	limit := queryInt(c, "limit", 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	skip := queryInt(c, "skip", 0)
	if skip < 0 {
		skip = 0
	}

	status := tracker.Status(c.Query("status"))
	if status != "" && !tracker.ValidStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Unknown status: %s", status),
		})
	}

	return c.Status(fiber.StatusOK).JSON(h.store.List(status, limit, skip))
}

// Stats handles GET /api/v1/upload/stats/summary.
func (h *UploadHandler) Stats(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.store.Stats())
}

// ingestFailureMessage keeps known pipeline errors verbatim on the task;
// anything else gets a generic prefix.
func ingestFailureMessage(err error) string {
	for _, known := range []error{
		ingest.ErrFileNotFound,
		ingest.ErrInvalidFileType,
		ingest.ErrParse,
		ingest.ErrMissingColumn,
		ingest.ErrInvalidSwiftCode,
		ingest.ErrDuplicateSwiftCode,
	} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "Error processing file: " + err.Error()
}

func queryInt(c fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
