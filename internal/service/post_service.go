package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"pulse/internal/cache"
	"pulse/internal/middleware"
	"pulse/internal/models"
	"pulse/internal/repository"
)

type PostService struct {
	postRepo      repository.PostRepository
	notifications *NotificationService
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
	// feedIncludeSelf controls whether a user's own posts appear in their feed.
	feedIncludeSelf bool
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

type ListPostsInput struct {
	Search        string
	Ordering      string
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	notifications *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	feedIncludeSelf bool,
) *PostService {
	return &PostService{
		postRepo:        postRepo,
		notifications:   notifications,
		isAdmin:         isAdmin,
		feedIncludeSelf: feedIncludeSelf,
	}
}

const (
	minTitleLen   = 3
	maxTitleLen   = 300
	maxContentLen = 50000

	// frontPageLimit is the only page size served from the list cache; it
	// matches the handler's default so the cached slice and the requested
	// page size always agree.
	frontPageLimit = 20
)

// validatePostTitle checks the trimmed title against length bounds, counted
// in runes so non-ASCII titles get the same budget as ASCII.
func validatePostTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < minTitleLen {
		return "", models.NewFieldValidationError("title", "Title must be at least 3 characters")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", models.NewFieldValidationError("title", "Title too long (max 300 characters)")
	}
	return title, nil
}

func validatePostContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewFieldValidationError("content", "Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "", models.NewFieldValidationError("content", "Content too long (max 50000 characters)")
	}
	return content, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title, err := validatePostTitle(in.Title)
	if err != nil {
		return nil, err
	}
	content, err := validatePostContent(in.Content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   title,
		Content: content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	middleware.PostsCreated.Inc()

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	var posts []*models.Post
	var err error

	// The anonymous front page (no search, default ordering, first page at
	// the default size) is the hottest read path, so it goes through the
	// cache. Any other limit would return a wrong page size from the shared
	// key, so those queries bypass the cache entirely.
	cacheable := strings.TrimSpace(in.Search) == "" &&
		(in.Ordering == "" || in.Ordering == "-created_at") &&
		in.Offset == 0 && in.Limit == frontPageLimit

	if cacheable {
		err = cache.Aside(ctx, cache.PostsListKey, &posts, cache.ListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, repository.PostQuery{
				Limit:  in.Limit,
				Offset: in.Offset,
			}, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}

		// Re-enrich with the current user's liked status; the cached copy was
		// built for an anonymous viewer.
		if in.CurrentUserID != 0 && len(posts) > 0 {
			postIDs := make([]uint, len(posts))
			for i, p := range posts {
				postIDs[i] = p.ID
			}

			likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, in.CurrentUserID, postIDs)
			if err != nil {
				middleware.Logger.WarnContext(ctx, "liked status enrichment failed",
					"user_id", in.CurrentUserID, "error", err)
			} else {
				likedMap := make(map[uint]bool, len(likedIDs))
				for _, id := range likedIDs {
					likedMap[id] = true
				}
				for _, p := range posts {
					p.Liked = likedMap[p.ID]
				}
			}
		}
		return posts, nil
	}

	return s.postRepo.List(ctx, repository.PostQuery{
		Search:   in.Search,
		Ordering: in.Ordering,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}, in.CurrentUserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// GetFeed assembles the user's feed from the accounts they follow, newest
// first. Depending on configuration the user's own posts are included too.
func (s *PostService) GetFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	middleware.FeedRequests.Inc()
	return s.postRepo.Feed(ctx, userID, s.feedIncludeSelf, limit, offset)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != "" {
		title, err := validatePostTitle(in.Title)
		if err != nil {
			return nil, err
		}
		post.Title = title
	}
	if in.Content != "" {
		content, err := validatePostContent(in.Content)
		if err != nil {
			return nil, err
		}
		post.Content = content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post along with its comments and likes. Only the
// author may delete, with an admin override for moderation.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// LikeResult carries the refreshed post alongside whether the like was newly
// stored; Created is false when the post was already liked.
type LikeResult struct {
	Post    *models.Post `json:"post"`
	Created bool         `json:"created"`
}

// LikePost records userID's like on the post. Liking an already-liked post is
// a no-op reported through Created. The post author is notified only when a
// like is actually stored, so repeated likes never produce duplicate
// notifications.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if created {
		middleware.LikesRecorded.Inc()
		if s.notifications != nil {
			if err := s.notifications.Notify(ctx, post.UserID, userID, models.VerbLiked, postID); err != nil {
				return nil, err
			}
		}
	}

	refreshed, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Post: refreshed, Created: created}, nil
}

// UnlikePost removes userID's like if present. Unliking a post that was never
// liked is a no-op; the stored notification, if any, is kept as history.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}
