package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutGetDelete(t *testing.T) {
	ctx := context.Background()
	disk, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "product_images/a.jpg", strings.NewReader("jpeg-bytes"), "image/jpeg"))

	ok, err := disk.Exists(ctx, "product_images/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := disk.Get(ctx, "product_images/a.jpg")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, disk.Delete(ctx, "product_images/a.jpg"))
	require.NoError(t, disk.Delete(ctx, "product_images/a.jpg"))

	_, err = disk.Get(ctx, "product_images/a.jpg")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	disk, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "../../escape.txt", strings.NewReader("x"), ""))
	ok, err := disk.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "climbing keys are clamped to the root")

	assert.Error(t, disk.Put(ctx, "/", strings.NewReader("x"), ""))
}
