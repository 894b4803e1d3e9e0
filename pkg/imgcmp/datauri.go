package imgcmp

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrImageNotFound   = errors.New("does not exist")
	ErrImageUnreadable = errors.New("cannot be read")
)

// ImageError reports a problem with one of the input image files.
// Kind is ErrImageNotFound, ErrImageUnreadable or nil for anything else.
type ImageError struct {
	Path string
	Kind error
	Err  error
}

func (e *ImageError) Error() string {
	switch e.Kind {
	case ErrImageNotFound:
		return fmt.Sprintf("Image file %s does not exist.", e.Path)
	case ErrImageUnreadable:
		return fmt.Sprintf("Error reading image file %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("An unexpected error occurred with image file %s: %v", e.Path, e.Err)
	}
}

func (e *ImageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	for _, err := range []error{e.Kind, e.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ImageSubtype is the lower-cased text after the last '.' of the file name.
// It is used as the MIME subtype without looking at the file contents.
func ImageSubtype(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// DataURI wraps already-read bytes as data:image/<subtype>;base64,<payload>
func DataURI(subtype string, data []byte) string {
	return "data:image/" + subtype + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodeImage reads the whole file at path and returns it as a data URI
func EncodeImage(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ImageError{Path: path, Kind: ErrImageNotFound, Err: err}
		}
		return "", &ImageError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// The file can vanish between the check and the read
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ImageError{Path: path, Kind: ErrImageNotFound, Err: err}
		}
		return "", &ImageError{Path: path, Kind: ErrImageUnreadable, Err: err}
	}

	return DataURI(ImageSubtype(path), data), nil
}
