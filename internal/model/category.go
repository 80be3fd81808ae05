package model

import "strings"

// Category - категория расхода
type Category int

const (
	Food Category = iota
	Drink
	Travel
	Work
	Miscellaneous
)

// Categories содержит все категории в порядке объявления
var Categories = []Category{Food, Drink, Travel, Work, Miscellaneous}

// aliases сопоставляет токены сообщения с категориями.
// "drink" и "d" ведут на Food, а не на Drink.
var aliases = map[string]Category{
	"food":   Food,
	"f":      Food,
	"drink":  Food,
	"d":      Food,
	"travel": Travel,
	"work":   Work,
	"misc":   Miscellaneous,
}

// LookupCategory находит категорию по токену без учета регистра
func LookupCategory(token string) (Category, bool) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(token))]
	return c, ok
}

// IsCategory проверяет, является ли токен псевдонимом категории
func IsCategory(token string) bool {
	_, ok := LookupCategory(token)
	return ok
}

// String возвращает каноническое имя категории для хранилища
func (c Category) String() string {
	switch c {
	case Food:
		return "food"
	case Drink:
		return "drink"
	case Travel:
		return "travel"
	case Work:
		return "work"
	case Miscellaneous:
		return "misc"
	}
	return "unknown"
}

// Title возвращает название категории для ответов и графиков
func (c Category) Title() string {
	switch c {
	case Food:
		return "Food"
	case Drink:
		return "Drink"
	case Travel:
		return "Travel"
	case Work:
		return "Work"
	case Miscellaneous:
		return "Miscellaneous"
	}
	return "Unknown"
}

// ParseStoredCategory восстанавливает категорию из канонического имени
func ParseStoredCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// MarshalText пишет категорию в JSON каноническим именем
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText читает категорию из канонического имени
func (c *Category) UnmarshalText(b []byte) error {
	parsed, ok := ParseStoredCategory(string(b))
	if !ok {
		return &UnknownCategoryError{Name: string(b)}
	}
	*c = parsed
	return nil
}

// UnknownCategoryError возвращается при чтении неизвестной категории из хранилища
type UnknownCategoryError struct {
	Name string
}

func (e *UnknownCategoryError) Error() string {
	return "unknown category: " + e.Name
}
