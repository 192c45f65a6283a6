package models

// CategoryName это допустимое название категории (ENUM в БД).
type CategoryName string

const (
	CategoryMasculino CategoryName = "Masculino"
	CategoryFemenino  CategoryName = "Femenino"
	CategoryMixto     CategoryName = "Mixto"
)

func (n CategoryName) Valid() bool {
	switch n {
	case CategoryMasculino, CategoryFemenino, CategoryMixto:
		return true
	}
	return false
}

type Category struct {
	ID   int          `json:"id" db:"id"`
	Name CategoryName `json:"name" db:"name"`
}
