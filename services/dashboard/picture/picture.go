package picture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("picture")

// ErrPictureTooLarge signals an uploaded file above the configured maximum size
var ErrPictureTooLarge = errors.New("picture exceeds the maximum authorized size")

// ErrInvalidPicture signals an uploaded file that is not an image
var ErrInvalidPicture = errors.New("file is not a valid picture")

const binaryPrefixes = "KMGTPE"

var errNilStore = errors.New("nil picture store")
var errNilNotifier = errors.New("nil notifier")

// Store defines the interface for persisting the API pictures
type Store interface {
	SavePicture(ctx context.Context, apiID string, dataURL string) error
	GetPicture(ctx context.Context, apiID string) (string, error)
	DeletePicture(ctx context.Context, apiID string) error
	IsInterfaceNil() bool
}

// Notifier defines the interface for the user notifications
type Notifier interface {
	ShowError(message string)
	IsInterfaceNil() bool
}

type picturesHandler struct {
	store        Store
	notifier     Notifier
	maxSize      uint64
	maxSizeLabel string
}

// NewPicturesHandler creates the handler of the API pictures. maxSize is a human readable size, like "1MB",
// its units being powers of 1024
func NewPicturesHandler(store Store, notifier Notifier, maxSize string) (*picturesHandler, error) {
	if check.IfNil(store) {
		return nil, errNilStore
	}
	if check.IfNil(notifier) {
		return nil, errNilNotifier
	}

	size, err := parseMaxSize(maxSize)
	if err != nil {
		return nil, fmt.Errorf("invalid maximum picture size %q: %w", maxSize, err)
	}

	return &picturesHandler{
		store:        store,
		notifier:     notifier,
		maxSize:      size,
		maxSizeLabel: maxSize,
	}, nil
}

// parseMaxSize reads "KB", "MB", "GB" and the like as binary units, "1MB" being 1048576 bytes
func parseMaxSize(maxSize string) (uint64, error) {
	value := strings.TrimSpace(maxSize)
	upper := strings.ToUpper(value)

	switch {
	case strings.HasSuffix(upper, "IB"):
	case len(upper) >= 2 && strings.HasSuffix(upper, "B") && strings.ContainsRune(binaryPrefixes, rune(upper[len(upper)-2])):
		value = value[:len(value)-1] + "iB"
	case len(upper) >= 1 && strings.ContainsRune(binaryPrefixes, rune(upper[len(upper)-1])):
		value += "i"
	}

	return humanize.ParseBytes(value)
}

// Upload validates the file and stores it as the API picture. Returns the picture as a data URL
func (handler *picturesHandler) Upload(ctx context.Context, apiID string, fileName string, content []byte) (string, error) {
	if uint64(len(content)) > handler.maxSize {
		handler.notifier.ShowError(fmt.Sprintf("Image %q exceeds the maximum authorized size (%s)", fileName, handler.maxSizeLabel))
		return "", fmt.Errorf("%w: %s is %s", ErrPictureTooLarge, fileName, humanize.Bytes(uint64(len(content))))
	}

	mimeType := mimetype.Detect(content)
	if !strings.HasPrefix(mimeType.String(), "image/") {
		handler.notifier.ShowError("File is not valid (error: pattern)")
		return "", fmt.Errorf("%w: %s is %s", ErrInvalidPicture, fileName, mimeType.String())
	}

	dataURL := "data:" + mimeType.String() + ";base64," + base64.StdEncoding.EncodeToString(content)
	err := handler.store.SavePicture(ctx, apiID, dataURL)
	if err != nil {
		return "", err
	}

	log.Debug("API picture changed", "api", apiID, "file", fileName, "type", mimeType.String(), "size", humanize.Bytes(uint64(len(content))))

	return dataURL, nil
}

// Picture returns the picture of an API. isDefault is true when no picture was uploaded
func (handler *picturesHandler) Picture(ctx context.Context, apiID string) (dataURL string, isDefault bool, err error) {
	dataURL, err = handler.store.GetPicture(ctx, apiID)
	if errors.Is(err, common.ErrPictureNotFound) {
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}

	return dataURL, false, nil
}

// Delete removes the picture of an API, falling back to the default one
func (handler *picturesHandler) Delete(ctx context.Context, apiID string) error {
	return handler.store.DeletePicture(ctx, apiID)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (handler *picturesHandler) IsInterfaceNil() bool {
	return handler == nil
}
