package common

import "errors"

// ErrPictureNotFound signals an API without an uploaded picture
var ErrPictureNotFound = errors.New("picture not found")
