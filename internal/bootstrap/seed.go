package bootstrap

import (
	"log"

	"github.com/inkwell-cms/inkwell/internal/entity"
	"github.com/inkwell-cms/inkwell/pkg/slug"
	"gorm.io/gorm"
)

// SeedDev provisions a development dataset: a handful of accounts mirrored
// from the identity store plus starter categories and tags. Idempotent, so
// it runs on every boot in development.
func SeedDev(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedCategories(db); err != nil {
		return err
	}
	return seedTags(db)
}

func seedUsers(db *gorm.DB) error {
	users := []struct {
		Username string
		Email    string
		UserType string
		Bio      string
	}{
		{"admin", "admin@inkwell.dev", entity.UserTypeAdmin, "Site administrator"},
		{"morgan", "morgan@inkwell.dev", entity.UserTypeAuthor, "Staff writer"},
		{"casey", "casey@inkwell.dev", entity.UserTypeRegular, ""},
	}

	for _, u := range users {
		var count int64
		if err := db.Model(&entity.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		user := entity.User{Username: u.Username, Email: u.Email}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		profile := entity.Profile{
			UserID:   user.ID,
			UserType: u.UserType,
			Bio:      u.Bio,
		}
		if err := db.Create(&profile).Error; err != nil {
			return err
		}

		log.Printf("Seeded user %s (%s)", u.Username, u.UserType)
	}

	return nil
}

func seedCategories(db *gorm.DB) error {
	categories := []entity.Category{
		{Name: "Technology", Description: "Software, hardware and everything between"},
		{Name: "Culture", Description: "Books, film and the arts"},
		{Name: "Science", Description: "Research and discovery"},
	}

	for _, c := range categories {
		var count int64
		if err := db.Model(&entity.Category{}).Where("name = ?", c.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		c.Slug = slug.Make(c.Name)
		if err := db.Create(&c).Error; err != nil {
			return err
		}
	}

	return nil
}

func seedTags(db *gorm.DB) error {
	names := []string{"golang", "databases", "essay", "interview", "tutorial"}

	for _, name := range names {
		tagSlug := slug.Make(name)
		var count int64
		if err := db.Model(&entity.Tag{}).Where("slug = ?", tagSlug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := db.Create(&entity.Tag{Name: name, Slug: tagSlug}).Error; err != nil {
			return err
		}
	}

	return nil
}
