package workers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"carscout/storage"
)

// ImageWorker archives each vehicle's cover image: download, hash, upload to
// object storage, write the key back on the vehicle row. Runs as a slow
// background loop beside the crawl.
type ImageWorker struct {
	archive    storage.ImageArchive
	httpClient *http.Client
	uploader   Uploader
	log        *logrus.Entry
}

// Uploader is the slice of the object store the worker needs.
type Uploader interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
}

func NewImageWorker(archive storage.ImageArchive, client *http.Client, uploader Uploader, log *logrus.Entry) *ImageWorker {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ImageWorker{
		archive:    archive,
		httpClient: client,
		uploader:   uploader,
		log:        log,
	}
}

// Run loops until the context ends, archiving up to batchSize images per
// interval tick.
func (w *ImageWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Image worker stopping")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx, batchSize)
		}
	}
}

// ProcessBatch archives one batch of pending images. Failures are logged and
// left pending; the next tick retries them.
func (w *ImageWorker) ProcessBatch(ctx context.Context, batchSize int) {
	vehicles, err := w.archive.GetVehiclesPendingImage(ctx, batchSize)
	if err != nil {
		w.log.WithError(err).Error("Image worker query failed")
		return
	}
	if len(vehicles) == 0 {
		return
	}

	w.log.WithField("pending", len(vehicles)).Info("Archiving vehicle images")

	var archived, failed int
	for i := range vehicles {
		v := &vehicles[i]
		if v.ImageURL == nil || *v.ImageURL == "" {
			continue
		}

		key, err := w.archiveOne(ctx, *v.ImageURL)
		if err != nil {
			w.log.WithError(err).WithField("listing_id", v.ListingID).Warn("Failed to archive image")
			failed++
			continue
		}

		if err := w.archive.SetVehicleImageKey(ctx, v.ListingID, key); err != nil {
			w.log.WithError(err).WithField("listing_id", v.ListingID).Error("Failed to record image key")
			failed++
			continue
		}
		archived++

		// Rate limit between downloads
		time.Sleep(200 * time.Millisecond)
	}

	if archived > 0 || failed > 0 {
		w.log.WithFields(logrus.Fields{"archived": archived, "failed": failed}).Info("Image batch done")
	}
}

// archiveOne downloads the image and uploads it under a content-addressed
// key, so the same image shared between ads is stored once.
func (w *ImageWorker) archiveOne(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "image/*,*/*")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 50*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	hash := sha256.Sum256(data)
	digest := hex.EncodeToString(hash[:])
	ext := guessExtension(imageURL, resp.Header.Get("Content-Type"))
	key := fmt.Sprintf("images/%s/%s%s", digest[:2], digest, ext)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if err := w.uploader.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	return key, nil
}

// guessExtension determines the file extension from URL or content-type
func guessExtension(url, contentType string) string {
	ext := strings.ToLower(path.Ext(url))
	if i := strings.IndexByte(ext, '?'); i >= 0 {
		ext = ext[:i]
	}
	if isImageExt(ext) {
		return ext
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff":
		return true
	}
	return false
}
