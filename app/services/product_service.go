package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
)

// ImageDir is the storage prefix of product images.
const ImageDir = "product_images"

var (
	ErrBlankProductName = errors.New("product name is required")
	ErrUnsupportedImage = errors.New("image must be .jpg, .jpeg, .png, .gif or .webp")
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ProductInput holds the editable fields of a product.
type ProductInput struct {
	Code  string
	Name  string
	Price decimal.Decimal
	Cost  decimal.Decimal
	Stock int
}

// ImageUpload is an optional image sent with a product form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// ProductService is the admin side of the catalog: CRUD, images and the
// cached listing used by the POS screen.
type ProductService struct {
	db    *gorm.DB
	cache cache.Store
	disk  storage.Disk
	ttl   time.Duration
}

func NewProductService(db *gorm.DB, store cache.Store, disk storage.Disk, ttl time.Duration) *ProductService {
	if store == nil {
		store = cache.Nop{}
	}
	return &ProductService{db: db, cache: store, disk: disk, ttl: ttl}
}

func (s *ProductService) repo() *repositories.ProductRepository {
	return repositories.NewProductRepository(s.db)
}

// List returns the catalog, from cache when possible.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	key := productsKey(ctx, s.cache)

	var products []models.Product
	if s.cache.Get(ctx, key, &products) {
		return products, nil
	}

	products, err := s.repo().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := s.cache.Set(ctx, key, products, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: store product listing", "error", err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo().Find(ctx, id)
}

// Create stores a new product. Without an image it gets DefaultImage.
func (s *ProductService) Create(ctx context.Context, in ProductInput, img *ImageUpload) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrBlankProductName
	}

	p := &models.Product{ImageFile: models.DefaultImage}
	in.apply(p)

	stored, err := s.storeImage(ctx, img)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		p.ImageFile = stored
	}

	if err := s.repo().Create(ctx, p); err != nil {
		s.dropImage(ctx, stored)
		return nil, err
	}

	forgetProducts(ctx, s.cache)
	return p, nil
}

// Update overwrites the editable fields. The image is replaced only when a
// new one is uploaded.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput, img *ImageUpload) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrBlankProductName
	}

	p, err := s.repo().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)

	stored, err := s.storeImage(ctx, img)
	if err != nil {
		return nil, err
	}
	old := p.ImageFile
	if stored != "" {
		p.ImageFile = stored
	}

	if err := s.repo().Update(ctx, p); err != nil {
		s.dropImage(ctx, stored)
		return nil, err
	}
	if stored != "" {
		s.dropImage(ctx, old)
	}

	forgetProducts(ctx, s.cache)
	return p, nil
}

// Delete removes the product and its uploaded image.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	p, err := s.repo().Find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo().Delete(ctx, id); err != nil {
		return err
	}
	s.dropImage(ctx, p.ImageFile)
	forgetProducts(ctx, s.cache)
	return nil
}

// OpenImage returns the stored image and its content type. A missing file
// yields storage.ErrNotExist.
func (s *ProductService) OpenImage(ctx context.Context, file string) (io.ReadCloser, string, error) {
	name := path.Base("/" + file)
	if name == "/" || name == "." {
		return nil, "", storage.ErrNotExist
	}
	rc, err := s.disk.Get(ctx, path.Join(ImageDir, name))
	if err != nil {
		return nil, "", err
	}
	ct := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return rc, ct, nil
}

// storeImage saves img under a fresh uuid name and returns that name, or ""
// when nothing was uploaded.
func (s *ProductService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || img.Body == nil || strings.TrimSpace(img.Filename) == "" {
		return "", nil
	}
	ext := strings.ToLower(path.Ext(img.Filename))
	if !imageExtensions[ext] {
		return "", ErrUnsupportedImage
	}

	name := uuid.NewString() + ext
	if err := s.disk.Put(ctx, path.Join(ImageDir, name), img.Body, mime.TypeByExtension(ext)); err != nil {
		return "", fmt.Errorf("store product image: %w", err)
	}
	return name, nil
}

func (s *ProductService) dropImage(ctx context.Context, name string) {
	if name == "" || name == models.DefaultImage {
		return
	}
	if err := s.disk.Delete(ctx, path.Join(ImageDir, name)); err != nil {
		logger.WithCtx(ctx).Warn("storage: delete product image", "file", name, "error", err)
	}
}

func (in ProductInput) apply(p *models.Product) {
	p.Code = models.CodePtr(in.Code)
	p.Name = strings.TrimSpace(in.Name)
	p.Price = in.Price
	p.Cost = in.Cost
	p.Stock = in.Stock
}
