package repository

import (
	"context"
	"errors"
	"fmt"

	"cafeapi/model"

	"gorm.io/gorm"
)

// FieldCoffeePrice is the only column that may be changed after insert.
const FieldCoffeePrice = "coffee_price"

var writableFields = map[string]bool{
	FieldCoffeePrice: true,
}

type CafeRepository interface {
	FindAll(ctx context.Context) ([]model.Cafe, error)
	FindByID(ctx context.Context, id uint) (*model.Cafe, error)
	FindByLocation(ctx context.Context, location string) ([]model.Cafe, error)
	Insert(ctx context.Context, cafe *model.Cafe) error
	UpdateField(ctx context.Context, id uint, field string, value any) error
	Delete(ctx context.Context, id uint) error
}

type GormCafeRepository struct {
	db *gorm.DB
}

func NewGormCafeRepository(db *gorm.DB) *GormCafeRepository {
	return &GormCafeRepository{db: db}
}

func (r *GormCafeRepository) FindAll(ctx context.Context) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := r.db.WithContext(ctx).Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("find all cafes: %w", err)
	}
	return cafes, nil
}

func (r *GormCafeRepository) FindByID(ctx context.Context, id uint) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := r.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("find cafe %d: %w", id, err)
	}
	return &cafe, nil
}

func (r *GormCafeRepository) FindByLocation(ctx context.Context, location string) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := r.db.WithContext(ctx).Where("location = ?", location).Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("find cafes in %q: %w", location, err)
	}
	return cafes, nil
}

// Insert stores a new cafe; the storage-assigned id is written back into cafe.ID.
func (r *GormCafeRepository) Insert(ctx context.Context, cafe *model.Cafe) error {
	cafe.ID = 0
	if err := r.db.WithContext(ctx).Create(cafe).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert cafe %q: %w", cafe.Name, err)
	}
	return nil
}

// UpdateField overwrites a single column of a single row.
func (r *GormCafeRepository) UpdateField(ctx context.Context, id uint, field string, value any) error {
	if !writableFields[field] {
		return fmt.Errorf("%w: %s", ErrFieldNotWritable, field)
	}
	res := r.db.WithContext(ctx).Model(&model.Cafe{}).Where("id = ?", id).Update(field, value)
	if res.Error != nil {
		return fmt.Errorf("update cafe %d %s: %w", id, field, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCafeNotFound
	}
	return nil
}

func (r *GormCafeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Cafe{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete cafe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCafeNotFound
	}
	return nil
}
