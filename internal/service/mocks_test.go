package service

import (
	"context"

	"vybe/internal/cache"
	"vybe/internal/model"
	"vybe/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository INTERFACES, so tests swap in mocks that
// return controlled responses instead of hitting Postgres or Redis. Each
// function field overrides one method; unset fields fall back to a sane
// default (usually "not found" or "empty").

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUserNameFn    func(ctx context.Context, userName string) (*model.User, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	existsByUserNameFn func(ctx context.Context, userName string) (bool, error)
	updateProfileFn    func(ctx context.Context, user *model.User) error
	getSummariesFn     func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	suggestedFn        func(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	if m.getByUserNameFn != nil {
		return m.getByUserNameFn(ctx, userName)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	if m.existsByUserNameFn != nil {
		return m.existsByUserNameFn(ctx, userName)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if m.getSummariesFn != nil {
		return m.getSummariesFn(ctx, ids)
	}
	return map[int64]model.UserSummary{}, nil
}

func (m *mockUserRepository) Suggested(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error) {
	if m.suggestedFn != nil {
		return m.suggestedFn(ctx, userID, limit)
	}
	return nil, nil
}

type mockFollowRepository struct {
	followFn         func(ctx context.Context, followerID, followeeID int64) (bool, *model.FollowCounts, error)
	unfollowFn       func(ctx context.Context, followerID, followeeID int64) (bool, *model.FollowCounts, error)
	existsFn         func(ctx context.Context, followerID, followeeID int64) (bool, error)
	getFolloweeIDsFn func(ctx context.Context, userID int64) ([]int64, error)
	getFollowerIDsFn func(ctx context.Context, userID int64) ([]int64, error)
}

func (m *mockFollowRepository) Follow(ctx context.Context, followerID, followeeID int64) (bool, *model.FollowCounts, error) {
	if m.followFn != nil {
		return m.followFn(ctx, followerID, followeeID)
	}
	return true, &model.FollowCounts{}, nil
}

func (m *mockFollowRepository) Unfollow(ctx context.Context, followerID, followeeID int64) (bool, *model.FollowCounts, error) {
	if m.unfollowFn != nil {
		return m.unfollowFn(ctx, followerID, followeeID)
	}
	return true, &model.FollowCounts{}, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followeeID)
	}
	return false, nil
}

func (m *mockFollowRepository) GetFolloweeIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFolloweeIDsFn != nil {
		return m.getFolloweeIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFollowRepository) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFollowerIDsFn != nil {
		return m.getFollowerIDsFn(ctx, userID)
	}
	return nil, nil
}

type mockPostRepository struct {
	createFn          func(ctx context.Context, post *model.Post) error
	getByIDFn         func(ctx context.Context, postID int64) (*model.Post, error)
	getByIDsFn        func(ctx context.Context, postIDs []int64) ([]model.Post, error)
	getByAuthorsFn    func(ctx context.Context, authorIDs []int64, limit int) ([]model.Post, error)
	getRecentByUserFn func(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)
	likeFn            func(ctx context.Context, postID, userID int64) (bool, error)
	unlikeFn          func(ctx context.Context, postID, userID int64) (bool, error)
	getLikerIDsFn     func(ctx context.Context, postIDs []int64) (map[int64][]int64, error)
	checkLikesFn      func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
	existsFn          func(ctx context.Context, postID int64) (bool, error)

	likeCalls   []int64
	unlikeCalls []int64
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, postIDs)
	}
	return nil, nil
}

func (m *mockPostRepository) GetByAuthors(ctx context.Context, authorIDs []int64, limit int) ([]model.Post, error) {
	if m.getByAuthorsFn != nil {
		return m.getByAuthorsFn(ctx, authorIDs, limit)
	}
	return nil, nil
}

func (m *mockPostRepository) GetRecentByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	if m.getRecentByUserFn != nil {
		return m.getRecentByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockPostRepository) Like(ctx context.Context, postID, userID int64) (bool, error) {
	m.likeCalls = append(m.likeCalls, postID)
	if m.likeFn != nil {
		return m.likeFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockPostRepository) Unlike(ctx context.Context, postID, userID int64) (bool, error) {
	m.unlikeCalls = append(m.unlikeCalls, postID)
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockPostRepository) GetLikerIDs(ctx context.Context, postIDs []int64) (map[int64][]int64, error) {
	if m.getLikerIDsFn != nil {
		return m.getLikerIDsFn(ctx, postIDs)
	}
	return map[int64][]int64{}, nil
}

func (m *mockPostRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, postIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return false, nil
}

type mockStoryRepository struct {
	createFn          func(ctx context.Context, story *model.Story) error
	getByIDFn         func(ctx context.Context, storyID int64) (*model.Story, error)
	getActiveFn       func(ctx context.Context) ([]model.Story, error)
	getActiveByUserFn func(ctx context.Context, userID int64) ([]model.Story, error)
	addViewerFn       func(ctx context.Context, storyID, userID int64) error
	getViewersFn      func(ctx context.Context, storyIDs []int64) (map[int64][]model.UserSummary, error)

	addViewerCalls []int64
}

func (m *mockStoryRepository) Create(ctx context.Context, story *model.Story) error {
	if m.createFn != nil {
		return m.createFn(ctx, story)
	}
	story.ID = 1
	return nil
}

func (m *mockStoryRepository) GetByID(ctx context.Context, storyID int64) (*model.Story, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, storyID)
	}
	return nil, model.ErrStoryNotFound
}

func (m *mockStoryRepository) GetActive(ctx context.Context) ([]model.Story, error) {
	if m.getActiveFn != nil {
		return m.getActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockStoryRepository) GetActiveByUser(ctx context.Context, userID int64) ([]model.Story, error) {
	if m.getActiveByUserFn != nil {
		return m.getActiveByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStoryRepository) AddViewer(ctx context.Context, storyID, userID int64) error {
	m.addViewerCalls = append(m.addViewerCalls, storyID)
	if m.addViewerFn != nil {
		return m.addViewerFn(ctx, storyID, userID)
	}
	return nil
}

func (m *mockStoryRepository) GetViewers(ctx context.Context, storyIDs []int64) (map[int64][]model.UserSummary, error) {
	if m.getViewersFn != nil {
		return m.getViewersFn(ctx, storyIDs)
	}
	return map[int64][]model.UserSummary{}, nil
}

type mockCommentRepository struct {
	createFn      func(ctx context.Context, postID, userID int64, content string) (*model.Comment, error)
	getByPostIDFn func(ctx context.Context, postID int64) ([]model.Comment, error)
	getByIDFn     func(ctx context.Context, commentID int64) (*model.Comment, error)
	deleteFn      func(ctx context.Context, commentID, userID int64) error
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, content)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Content: content}, nil
}

func (m *mockCommentRepository) GetByPostID(ctx context.Context, postID int64) ([]model.Comment, error) {
	if m.getByPostIDFn != nil {
		return m.getByPostIDFn(ctx, postID)
	}
	return nil, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID, userID)
	}
	return nil
}

// =============================================================================
// MOCK QUEUE AND CACHE
// =============================================================================

type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.FeedEvent) (string, error)

	published []queue.FeedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.FeedEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

type mockFeedCache struct {
	addPostFn    func(ctx context.Context, userID, postID int64, timestamp int64) error
	removePostFn func(ctx context.Context, userID, postID int64) error
	getFeedFn    func(ctx context.Context, userID int64, limit int) ([]int64, error)
	warmCacheFn  func(ctx context.Context, userID int64, posts []cache.PostScore) error
	existsFn     func(ctx context.Context, userID int64) (bool, error)

	warmed map[int64][]cache.PostScore
}

func (m *mockFeedCache) AddPost(ctx context.Context, userID, postID int64, timestamp int64) error {
	if m.addPostFn != nil {
		return m.addPostFn(ctx, userID, postID, timestamp)
	}
	return nil
}

func (m *mockFeedCache) RemovePost(ctx context.Context, userID, postID int64) error {
	if m.removePostFn != nil {
		return m.removePostFn(ctx, userID, postID)
	}
	return nil
}

func (m *mockFeedCache) GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	if m.getFeedFn != nil {
		return m.getFeedFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockFeedCache) WarmCache(ctx context.Context, userID int64, posts []cache.PostScore) error {
	if m.warmed == nil {
		m.warmed = make(map[int64][]cache.PostScore)
	}
	m.warmed[userID] = posts
	if m.warmCacheFn != nil {
		return m.warmCacheFn(ctx, userID, posts)
	}
	return nil
}

func (m *mockFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID)
	}
	return false, nil
}
