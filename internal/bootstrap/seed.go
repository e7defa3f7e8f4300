package bootstrap

import (
	"log"

	"anoa.com/socialhub/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Post{},
		&entity.PostMedia{},
		&entity.Story{},
		&entity.StoryLike{},
		&entity.Like{},
		&entity.Comment{},
		&entity.FollowRequest{},
		&entity.ChatMessage{},
		&entity.Notification{},
	)
}

// DevUsers are seeded in development so chat and notifications can be tried
// locally. Credentials live in the account service; only display data is seeded.
var DevUsers = []entity.User{
	{Username: "alice", Email: "alice@example.com", Profile: &entity.Profile{FullName: "Alice Example"}},
	{Username: "bob", Email: "bob@example.com", Profile: &entity.Profile{FullName: "Bob Example"}},
}

func SeedDevUsers(db *gorm.DB) error {
	for _, seed := range DevUsers {
		var count int64
		if err := db.Model(&entity.User{}).
			Where("email = ?", seed.Email).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			log.Printf("user %s already exists, skipping seed", seed.Email)
			continue
		}

		user := seed
		if seed.Profile != nil {
			profile := *seed.Profile
			user.Profile = &profile
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("seeded development user %s (%s)", user.Username, user.ID)
	}

	return nil
}
