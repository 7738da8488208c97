package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy bound to tx, so several writes share one transaction.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// All returns every product in catalog order (ascending id).
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

// Find looks up a product by primary key.
func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByCode looks up a product by its trimmed code.
func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	c := models.CodePtr(code)
	if c == nil {
		return nil, ErrNotFound
	}
	var p models.Product
	if err := r.db.WithContext(ctx).Where("code = ?", *c).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Create inserts p and fills in its id. A code already used by another
// product yields ErrConstraintViolation.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if err := r.checkCode(ctx, p.Code, 0); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// Update writes every editable column of p, including zero values.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	if _, err := r.Find(ctx, p.ID); err != nil {
		return err
	}
	if err := r.checkCode(ctx, p.Code, p.ID); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).
		Model(p).
		Select("code", "name", "price", "cost", "stock", "image_file", "updated_at").
		Updates(p).Error
	return translate(err)
}

// Delete removes the product. Order items that reference it keep their
// snapshot and have their product_id cleared first.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderItem{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DecrementStock subtracts qty from the product's stock only if enough is
// on hand. It reports false, without error, when the guard fails.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ProductRepository) checkCode(ctx context.Context, code *string, self uint) error {
	if code == nil {
		return nil
	}
	existing, err := r.FindByCode(ctx, *code)
	switch {
	case err == ErrNotFound:
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return ErrConstraintViolation
	}
	return nil
}
