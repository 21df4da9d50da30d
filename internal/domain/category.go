// internal/domain/category.go
package domain

// Category is a free-standing label attached to bills (many-to-many).
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
