package services

import "strings"

// Bucket rewrites stored relative media paths into absolute URLs.
type Bucket struct {
	baseURL string
}

func NewBucket(baseURL string) Bucket {
	return Bucket{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// URL prefixes path with the bucket URL. Absolute URLs and an unset bucket leave it unchanged.
func (b Bucket) URL(path string) string {
	if b.baseURL == "" || path == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "//") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.baseURL + path
}
