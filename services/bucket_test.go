package services_test

import (
	"testing"

	"github.com/rpupo63/personal-site-backend/services"
	"github.com/stretchr/testify/assert"
)

func TestBucketURL(t *testing.T) {
	bucket := services.NewBucket("https://cdn.example/")

	assert.Equal(t, "https://cdn.example/images/a.png", bucket.URL("/images/a.png"))
	assert.Equal(t, "https://cdn.example/images/a.png", bucket.URL("images/a.png"))
	assert.Equal(t, "https://elsewhere/a.png", bucket.URL("https://elsewhere/a.png"))
	assert.Equal(t, "//elsewhere/a.png", bucket.URL("//elsewhere/a.png"))
	assert.Equal(t, "", bucket.URL(""))

	assert.Equal(t, "/images/a.png", services.NewBucket("").URL("/images/a.png"))
}
