package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-backend/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:      "test-secret-key-that-is-long-enough-123",
			AccessTokenTTL: 3,
			Issuer:         "catalog-backend-test",
		},
		Storage: config.StorageConfig{
			ImagesDir:     dir + "/images",
			ImagesURLPath: "/Resources/Images",
			AvatarsDir:    dir + "/avatars",
			AvatarsURL:    "/Avatars",
			MaxUploadMB:   1,
		},
	}
}

// fileHeaders builds multipart headers the way an HTTP request would carry
// them under the imageFiles field.
func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("imageFiles", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["imageFiles"]
}
