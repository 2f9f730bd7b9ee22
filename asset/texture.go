package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Texture is a decoded 2D image.
type Texture struct {
	Base

	Width  int
	Height int
	Format string
	Image  image.Image
}

// NewTexture returns an unregistered texture wrapping img.
func NewTexture(img image.Image) *Texture {
	t := &Texture{}
	t.set(img, "memory")
	return t
}

func (t *Texture) set(img image.Image, format string) {
	b := img.Bounds()
	t.Image = img
	t.Width = b.Dx()
	t.Height = b.Dy()
	t.Format = format
}

// InstantiateAsset implements Instantiable. The image is shared.
func (t *Texture) InstantiateAsset() Asset {
	c := &Texture{Width: t.Width, Height: t.Height, Format: t.Format, Image: t.Image}
	c.tags = t.Tags()
	return c
}

// TextureLoader decodes PNG and BMP files.
type TextureLoader struct{}

// Version implements Loader.
func (TextureLoader) Version() string { return "1.1.0" }

// Load implements Loader.
func (TextureLoader) Load(_ *Library, path string, data []byte) (Asset, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	t := &Texture{}
	t.set(img, format)
	return t, nil
}

// Reload implements Reloader.
func (TextureLoader) Reload(_ *Library, a Asset, data []byte) error {
	t, ok := a.(*Texture)
	if !ok {
		return fmt.Errorf("%w: %T is not a texture", ErrWrongLoader, a)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode texture %s: %w", t.Path(), err)
	}
	t.set(img, format)
	return nil
}
