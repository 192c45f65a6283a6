package services

import (
	"context"
	"strings"

	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	categoryName := models.CategoryName(strings.TrimSpace(name))
	if !categoryName.Valid() {
		return nil, ErrInvalidCategoryName
	}
	category := &models.Category{Name: categoryName}
	if err := s.categoryRepo.Create(ctx, nil, category); err != nil {
		return nil, handleRepositoryError(err)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.List(ctx, nil)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return categories, nil
}
