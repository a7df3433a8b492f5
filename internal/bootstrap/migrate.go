package bootstrap

import (
	"github.com/inkwell-cms/inkwell/internal/entity"
	"gorm.io/gorm"
)

// Migrate keeps the schema in sync. Join tables come along with the
// many2many declarations on the entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Category{},
		&entity.Tag{},
		&entity.Article{},
		&entity.Comment{},
	)
}
