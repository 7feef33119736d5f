package models

import (
	"path"
	"strings"
)

// ThumbnailSuffix is appended to an image's base name to form its thumbnail file name.
const ThumbnailSuffix = ".thumb.jpg"

// Album is a directory under the upload root.
type Album struct {
	Name string `json:"name"`
	// Thumbnails are paths relative to the upload root.
	Thumbnails []string `json:"thumbnails"`
	Images     []Image  `json:"images,omitempty"`
}

// Image is an uploaded original plus its derived thumbnail file name.
// Thumbnail is empty when generation never completed.
type Image struct {
	Album     string `json:"album"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

// Path of the original relative to the upload root, slash separated.
func (i Image) Path() string {
	return path.Join(i.Album, i.Name)
}

// ThumbnailPath of the derived thumbnail relative to the upload root, slash separated.
func (i Image) ThumbnailPath() string {
	if i.Thumbnail == "" {
		return ""
	}
	return path.Join(i.Album, i.Thumbnail)
}

// IsThumbnail reports whether a file name is a generated thumbnail.
func IsThumbnail(name string) bool {
	return strings.HasSuffix(name, ThumbnailSuffix)
}

// ThumbnailName derives the thumbnail file name for an original by
// replacing everything after the last dot with ThumbnailSuffix.
func ThumbnailName(image string) string {
	for i := len(image) - 1; i >= 0; i-- {
		if image[i] == '.' {
			return image[:i] + ThumbnailSuffix
		}
	}
	return image + ThumbnailSuffix
}
