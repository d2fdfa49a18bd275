package picture

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func createHandler(t *testing.T, notifier Notifier) (*picturesHandler, *testsCommon.PictureStoreStub) {
	store := &testsCommon.PictureStoreStub{}
	handler, err := NewPicturesHandler(store, notifier, "1KB")
	require.NoError(t, err)

	return handler, store
}

func TestNewPicturesHandler(t *testing.T) {
	t.Parallel()

	t.Run("nil store should error", func(t *testing.T) {
		handler, err := NewPicturesHandler(nil, &testsCommon.NotifierStub{}, "1MB")
		assert.Nil(t, handler)
		assert.True(t, handler.IsInterfaceNil())
		assert.Equal(t, errNilStore, err)
	})
	t.Run("nil notifier should error", func(t *testing.T) {
		handler, err := NewPicturesHandler(&testsCommon.PictureStoreStub{}, nil, "1MB")
		assert.Nil(t, handler)
		assert.Equal(t, errNilNotifier, err)
	})
	t.Run("invalid max size should error", func(t *testing.T) {
		handler, err := NewPicturesHandler(&testsCommon.PictureStoreStub{}, &testsCommon.NotifierStub{}, "huge")
		assert.Nil(t, handler)
		assert.Contains(t, err.Error(), "invalid maximum picture size")
	})
	t.Run("should work", func(t *testing.T) {
		handler, err := NewPicturesHandler(&testsCommon.PictureStoreStub{}, &testsCommon.NotifierStub{}, "1MB")
		require.NoError(t, err)
		assert.False(t, handler.IsInterfaceNil())
		assert.Equal(t, uint64(1_048_576), handler.maxSize)
		assert.Equal(t, "1MB", handler.maxSizeLabel)
	})
}

func TestParseMaxSize(t *testing.T) {
	t.Parallel()

	testCases := map[string]uint64{
		"1MB":    1_048_576,
		"1 mb":   1_048_576,
		"1MiB":   1_048_576,
		"500KB":  512_000,
		"2k":     2048,
		"1.5GB":  1_610_612_736,
		"123":    123,
		"123B":   123,
		" 1KiB ": 1024,
	}
	for maxSize, expected := range testCases {
		size, err := parseMaxSize(maxSize)
		require.NoError(t, err, maxSize)
		assert.Equal(t, expected, size, maxSize)
	}
}

func TestPicturesHandler_Upload(t *testing.T) {
	t.Parallel()

	t.Run("too large should notify with the file name and the limit", func(t *testing.T) {
		t.Parallel()

		var messages []string
		handler, _ := createHandler(t, &testsCommon.NotifierStub{
			ShowErrorHandler: func(message string) {
				messages = append(messages, message)
			},
		})

		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2000)...)
		dataURL, err := handler.Upload(context.Background(), "api-1", "logo.png", content)
		assert.Empty(t, dataURL)
		assert.ErrorIs(t, err, ErrPictureTooLarge)
		assert.Equal(t, []string{`Image "logo.png" exceeds the maximum authorized size (1KB)`}, messages)
	})
	t.Run("not an image should notify", func(t *testing.T) {
		t.Parallel()

		var messages []string
		handler, _ := createHandler(t, &testsCommon.NotifierStub{
			ShowErrorHandler: func(message string) {
				messages = append(messages, message)
			},
		})

		_, err := handler.Upload(context.Background(), "api-1", "notes.txt", []byte("just some text"))
		assert.ErrorIs(t, err, ErrInvalidPicture)
		assert.Equal(t, []string{"File is not valid (error: pattern)"}, messages)
	})
	t.Run("store error should propagate", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("expected error")
		store := &testsCommon.PictureStoreStub{SaveErr: expectedErr}
		handler, _ := NewPicturesHandler(store, &testsCommon.NotifierStub{}, "1KB")

		_, err := handler.Upload(context.Background(), "api-1", "logo.png", pngHeader)
		assert.Equal(t, expectedErr, err)
	})
	t.Run("file just under 1MB should be accepted", func(t *testing.T) {
		t.Parallel()

		var messages []string
		notifier := &testsCommon.NotifierStub{
			ShowErrorHandler: func(message string) {
				messages = append(messages, message)
			},
		}
		handler, err := NewPicturesHandler(&testsCommon.PictureStoreStub{}, notifier, "1MB")
		require.NoError(t, err)

		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1_040_008-len(pngHeader))...)
		dataURL, err := handler.Upload(context.Background(), "api-1", "photo.png", content)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
		assert.Empty(t, messages)

		content = append(content, bytes.Repeat([]byte{0}, 1_048_577-len(content))...)
		_, err = handler.Upload(context.Background(), "api-1", "photo.png", content)
		assert.ErrorIs(t, err, ErrPictureTooLarge)
		assert.Equal(t, []string{`Image "photo.png" exceeds the maximum authorized size (1MB)`}, messages)
	})
	t.Run("should store a data url", func(t *testing.T) {
		t.Parallel()

		handler, _ := createHandler(t, &testsCommon.NotifierStub{})

		dataURL, err := handler.Upload(context.Background(), "api-1", "logo.png", pngHeader)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

		picture, isDefault, err := handler.Picture(context.Background(), "api-1")
		require.NoError(t, err)
		assert.False(t, isDefault)
		assert.Equal(t, dataURL, picture)
	})
}

func TestPicturesHandler_PictureAndDelete(t *testing.T) {
	t.Parallel()

	handler, store := createHandler(t, &testsCommon.NotifierStub{})
	require.NoError(t, store.SavePicture(context.Background(), "api-1", "data:image/png;base64,AAAA"))

	picture, isDefault, err := handler.Picture(context.Background(), "api-2")
	require.NoError(t, err)
	assert.True(t, isDefault)
	assert.Empty(t, picture)

	require.NoError(t, handler.Delete(context.Background(), "api-1"))
	_, isDefault, err = handler.Picture(context.Background(), "api-1")
	require.NoError(t, err)
	assert.True(t, isDefault)
}
