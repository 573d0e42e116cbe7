package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vybe/internal/model"
)

func activeStory(id, authorID int64, createdAt time.Time) model.Story {
	return model.Story{
		ID:        id,
		UserID:    authorID,
		MediaURL:  "https://cdn.example.com/stories/x.jpg",
		MediaType: model.MediaTypeImage,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(model.StoryTTL),
	}
}

func TestStoryService_Create_SetsExpiry(t *testing.T) {
	storyRepo := &mockStoryRepository{}
	svc := NewStoryService(storyRepo, &mockUserRepository{})

	before := time.Now()
	story, err := svc.Create(context.Background(), 1, &model.UploadResult{URL: "https://cdn.example.com/stories/a.jpg", Key: "stories/a.jpg"}, model.MediaTypeImage)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	wantMin := before.Add(model.StoryTTL)
	wantMax := time.Now().Add(model.StoryTTL)
	if story.ExpiresAt.Before(wantMin) || story.ExpiresAt.After(wantMax) {
		t.Errorf("expires_at = %v, want 24h from creation", story.ExpiresAt)
	}
}

func TestStoryService_Create_RequiresMedia(t *testing.T) {
	svc := NewStoryService(&mockStoryRepository{}, &mockUserRepository{})

	_, err := svc.Create(context.Background(), 1, nil, model.MediaTypeImage)
	if !errors.Is(err, model.ErrNoMediaProvided) {
		t.Fatalf("expected ErrNoMediaProvided, got: %v", err)
	}
}

func TestStoryService_GetAll_GroupsByAuthor(t *testing.T) {
	now := time.Now()
	storyRepo := &mockStoryRepository{
		getActiveFn: func(ctx context.Context) ([]model.Story, error) {
			// Newest first, authors interleaved
			return []model.Story{
				activeStory(5, 2, now),
				activeStory(4, 1, now.Add(-time.Minute)),
				activeStory(3, 2, now.Add(-2*time.Minute)),
				activeStory(2, 1, now.Add(-3*time.Minute)),
			}, nil
		},
	}
	userRepo := &mockUserRepository{
		getSummariesFn: func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
			return map[int64]model.UserSummary{
				1: {ID: 1, UserName: "alice"},
				2: {ID: 2, UserName: "bob"},
			}, nil
		},
	}
	svc := NewStoryService(storyRepo, userRepo)

	groups, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	// Groups ordered by their newest story
	if groups[0].Author.ID != 2 || groups[1].Author.ID != 1 {
		t.Errorf("group order = [%d, %d], want [2, 1]", groups[0].Author.ID, groups[1].Author.ID)
	}
	if groups[0].Stories[0].ID != 5 || groups[0].Stories[1].ID != 3 {
		t.Errorf("bob's stories = %d, %d, want 5, 3", groups[0].Stories[0].ID, groups[0].Stories[1].ID)
	}
	if groups[1].Stories[0].ID != 4 || groups[1].Stories[1].ID != 2 {
		t.Errorf("alice's stories = %d, %d, want 4, 2", groups[1].Stories[0].ID, groups[1].Stories[1].ID)
	}
}

func TestStoryService_GetAll_Empty(t *testing.T) {
	svc := NewStoryService(&mockStoryRepository{}, &mockUserRepository{})

	groups, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if groups == nil || len(groups) != 0 {
		t.Errorf("groups = %v, want empty slice", groups)
	}
}

func TestStoryService_GetMine_IncludesViewers(t *testing.T) {
	now := time.Now()
	storyRepo := &mockStoryRepository{
		getActiveByUserFn: func(ctx context.Context, userID int64) ([]model.Story, error) {
			return []model.Story{activeStory(7, userID, now)}, nil
		},
		getViewersFn: func(ctx context.Context, storyIDs []int64) (map[int64][]model.UserSummary, error) {
			return map[int64][]model.UserSummary{
				7: {{ID: 9, UserName: "fan"}},
			}, nil
		},
	}
	svc := NewStoryService(storyRepo, &mockUserRepository{})

	stories, err := svc.GetMine(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(stories) != 1 {
		t.Fatalf("expected 1 story, got %d", len(stories))
	}
	if len(stories[0].Viewers) != 1 || stories[0].Viewers[0].ID != 9 {
		t.Errorf("viewers = %+v, want one viewer with ID 9", stories[0].Viewers)
	}
}

func TestStoryService_GetByUser_UnknownUser(t *testing.T) {
	svc := NewStoryService(&mockStoryRepository{}, &mockUserRepository{})

	_, err := svc.GetByUser(context.Background(), 42)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
}
