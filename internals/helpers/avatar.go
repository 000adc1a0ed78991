// file: internals/helpers/avatar.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const avatarMaxDim = 256

// SaveAvatarWebp decodes an uploaded image, fits it into a 256px square and
// stores it as webp under <uploadDir>/avatars. Returns the relative path to
// persist on the user row.
func SaveAvatarWebp(uploadDir string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fit(img, avatarMaxDim, avatarMaxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode webp: %w", err)
	}

	dir := filepath.Join(uploadDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create avatar dir: %w", err)
	}

	name := uuid.New().String() + ".webp"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}

	return filepath.ToSlash(path), nil
}
