// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"pulse/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	DryRun      bool
	// MaxDays bounds how far back generated timestamps spread.
	MaxDays int
}

// Seed populates the database with test data: users, a follow mesh, posts,
// comments, likes and the notifications the likes/comments would have
// produced.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := createFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	posts, err := createPosts(f, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createEngagement(f, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, likes, comments, posts, follows, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d users...", i)
		}
	}
	return users, nil
}

// createFollowMesh gives every user a handful of followees so feeds have
// content. Self-follows are never generated.
func createFollowMesh(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, follower := range users {
		n := f.rand.Intn(5) + 1
		for j := 0; j < n; j++ {
			followee := users[f.rand.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			if err := f.CreateFollow(follower, followee); err != nil {
				return err
			}
		}
	}
	return nil
}

func createPosts(f *Factory, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[f.rand.Intn(len(users))]
		posts = append(posts, f.BuildPost(user))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// createEngagement sprinkles comments and likes over the posts, appending the
// notification each one would have produced on the live path. Actors acting
// on their own posts get no notification, matching the service behaviour.
func createEngagement(f *Factory, users []*models.User, posts []*models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	for _, post := range posts {
		author := userByID(users, post.UserID)
		if author == nil {
			continue
		}

		for j := f.rand.Intn(4); j > 0; j-- {
			actor := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(actor, post); err != nil {
				return err
			}
			if actor.ID != post.UserID {
				if err := f.CreateNotification(author, actor, models.VerbCommented, post); err != nil {
					return err
				}
			}
		}

		for j := f.rand.Intn(6); j > 0; j-- {
			actor := users[f.rand.Intn(len(users))]
			created, err := f.CreateLike(actor, post)
			if err != nil {
				return err
			}
			if created && actor.ID != post.UserID {
				if err := f.CreateNotification(author, actor, models.VerbLiked, post); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func userByID(users []*models.User, id uint) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
