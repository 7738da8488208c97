package services_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/internal/testdb"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
)

func newProductService(t *testing.T) (*services.ProductService, *gorm.DB, *storage.Local) {
	t.Helper()
	db := testdb.Open(t)
	disk, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return services.NewProductService(db, cache.NewMemory(), disk, 0), db, disk
}

func input(code, name string, price int64, stock int) services.ProductInput {
	return services.ProductInput{
		Code:  code,
		Name:  name,
		Price: decimal.NewFromInt(price),
		Cost:  decimal.NewFromInt(price / 2),
		Stock: stock,
	}
}

func readImage(t *testing.T, svc *services.ProductService, file string) string {
	t.Helper()
	rc, _, err := svc.OpenImage(context.Background(), file)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestProductCreateWithAndWithoutImage(t *testing.T) {
	svc, _, _ := newProductService(t)
	ctx := context.Background()

	plain, err := svc.Create(ctx, input("", "Rice", 50, 3), nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultImage, plain.ImageFile)
	assert.Nil(t, plain.Code)

	img := &services.ImageUpload{Filename: "Photo.JPG", Body: strings.NewReader("jpeg-bytes")}
	withImage, err := svc.Create(ctx, input("S-1", "Soap", 12, 1), img)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(withImage.ImageFile, ".jpg"))
	assert.NotEqual(t, "Photo.JPG", withImage.ImageFile)
	assert.Equal(t, "jpeg-bytes", readImage(t, svc, withImage.ImageFile))

	_, ct, err := svc.OpenImage(ctx, withImage.ImageFile)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
}

func TestProductCreateRejects(t *testing.T) {
	svc, _, _ := newProductService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, input("", "  ", 1, 1), nil)
	assert.ErrorIs(t, err, services.ErrBlankProductName)

	_, err = svc.Create(ctx, input("", "Rice", 1, 1), &services.ImageUpload{Filename: "x.exe", Body: strings.NewReader("")})
	assert.ErrorIs(t, err, services.ErrUnsupportedImage)

	_, err = svc.Create(ctx, input("A", "Rice", 1, 1), nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("A", "Rice again", 1, 1), nil)
	assert.ErrorIs(t, err, repositories.ErrConstraintViolation)
}

func TestProductUpdateKeepsOrReplacesImage(t *testing.T) {
	svc, _, _ := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, input("A", "Rice", 50, 3),
		&services.ImageUpload{Filename: "a.png", Body: strings.NewReader("first")})
	require.NoError(t, err)
	first := p.ImageFile

	p, err = svc.Update(ctx, p.ID, input("A", "Rice 10kg", 90, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, first, p.ImageFile)
	assert.Equal(t, 0, p.Stock)

	p, err = svc.Update(ctx, p.ID, input("A", "Rice 10kg", 90, 0),
		&services.ImageUpload{Filename: "b.webp", Body: strings.NewReader("second")})
	require.NoError(t, err)
	assert.NotEqual(t, first, p.ImageFile)
	assert.Equal(t, "second", readImage(t, svc, p.ImageFile))

	_, _, err = svc.OpenImage(ctx, first)
	assert.ErrorIs(t, err, storage.ErrNotExist)

	_, err = svc.Update(ctx, 999, input("Z", "Ghost", 1, 1), nil)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductDeleteRemovesImage(t *testing.T) {
	svc, _, _ := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, input("A", "Rice", 50, 3),
		&services.ImageUpload{Filename: "a.gif", Body: strings.NewReader("gif")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, _, err = svc.OpenImage(ctx, p.ImageFile)
	assert.ErrorIs(t, err, storage.ErrNotExist)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), repositories.ErrNotFound)
}

func TestProductListIsCachedUntilAWrite(t *testing.T) {
	svc, db, _ := newProductService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, input("A", "Rice", 50, 3), nil)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// written behind the service's back: the cached listing is served
	seedProduct(t, db, "B", "Soap", 12, 6, 1)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Create(ctx, input("C", "Salt", 3, 1), nil)
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.True(t, decimal.NewFromInt(50).Equal(list[0].Price))
}

func TestOpenImageRejectsTraversal(t *testing.T) {
	svc, _, disk := newProductService(t)
	ctx := context.Background()
	require.NoError(t, disk.Put(ctx, "secret.txt", strings.NewReader("nope"), "text/plain"))

	_, _, err := svc.OpenImage(ctx, "../secret.txt")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}
