package service

import (
	"context"
	"time"

	"vybe/internal/model"
	"vybe/internal/repository"
)

// StoryService creates and lists ephemeral stories. Expiry is enforced at
// the storage layer: every read filters on expires_at, so an expired story
// disappears the moment its TTL passes with no reaper in the request path.
type StoryService struct {
	storyRepo repository.StoryRepository
	userRepo  repository.UserRepository
}

func NewStoryService(storyRepo repository.StoryRepository, userRepo repository.UserRepository) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		userRepo:  userRepo,
	}
}

// Create persists a new story expiring 24 hours from now.
func (s *StoryService) Create(ctx context.Context, userID int64, media *model.UploadResult, mediaType string) (*model.Story, error) {
	if media == nil || media.URL == "" {
		return nil, model.ErrNoMediaProvided
	}
	if !model.IsValidMediaType(mediaType) {
		return nil, model.ErrInvalidMediaType
	}

	story := &model.Story{
		UserID:    userID,
		MediaURL:  media.URL,
		MediaType: mediaType,
		ExpiresAt: time.Now().Add(model.StoryTTL),
		Viewers:   []model.UserSummary{},
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

// GetAll returns every active story grouped by author, groups ordered by
// their newest story, stories newest first within each group.
func (s *StoryService) GetAll(ctx context.Context) ([]model.StoryGroup, error) {
	stories, err := s.storyRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return []model.StoryGroup{}, nil
	}

	authorSet := make(map[int64]struct{})
	for _, st := range stories {
		authorSet[st.UserID] = struct{}{}
	}
	authorIDs := make([]int64, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}
	authors, err := s.userRepo.GetSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	// Stories arrive newest first, so the first story seen for each author
	// also fixes that group's position in the bar
	groupIdx := make(map[int64]int)
	groups := make([]model.StoryGroup, 0, len(authorIDs))
	for _, st := range stories {
		idx, ok := groupIdx[st.UserID]
		if !ok {
			author := authors[st.UserID]
			groups = append(groups, model.StoryGroup{Author: author, Stories: []model.Story{}})
			idx = len(groups) - 1
			groupIdx[st.UserID] = idx
		}
		groups[idx].Stories = append(groups[idx].Stories, st)
	}

	return groups, nil
}

// GetMine returns the caller's active stories with their viewer lists.
func (s *StoryService) GetMine(ctx context.Context, userID int64) ([]model.Story, error) {
	stories, err := s.storyRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return []model.Story{}, nil
	}

	storyIDs := make([]int64, len(stories))
	for i, st := range stories {
		storyIDs[i] = st.ID
	}
	viewers, err := s.storyRepo.GetViewers(ctx, storyIDs)
	if err != nil {
		return nil, err
	}

	for i := range stories {
		stories[i].Viewers = viewers[stories[i].ID]
		if stories[i].Viewers == nil {
			stories[i].Viewers = []model.UserSummary{}
		}
	}

	return stories, nil
}

// GetByUser returns another user's active stories. Viewer lists stay
// private to the author and are not included.
func (s *StoryService) GetByUser(ctx context.Context, userID int64) ([]model.Story, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	stories, err := s.storyRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stories == nil {
		stories = []model.Story{}
	}

	authors, err := s.userRepo.GetSummaries(ctx, []int64{userID})
	if err == nil {
		if author, ok := authors[userID]; ok {
			for i := range stories {
				a := author
				stories[i].Author = &a
			}
		}
	}

	return stories, nil
}
