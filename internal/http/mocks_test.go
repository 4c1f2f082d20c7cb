package http

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"prepwise/internal/ai"
	"prepwise/internal/domain"
	"prepwise/internal/identity"
	"prepwise/internal/repository"
	"prepwise/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, ok := m.usersByID[user.ID]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := m.usersByEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

type mockIdentityRepo struct {
	byEmail map[string]repository.Credential
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{byEmail: make(map[string]repository.Credential)}
}

func (m *mockIdentityRepo) Create(_ context.Context, cred repository.Credential) error {
	if _, ok := m.byEmail[cred.Email]; ok {
		return repository.ErrDuplicate
	}
	m.byEmail[cred.Email] = cred
	return nil
}

func (m *mockIdentityRepo) GetByEmail(_ context.Context, email string) (repository.Credential, error) {
	cred, ok := m.byEmail[email]
	if !ok {
		return repository.Credential{}, pgx.ErrNoRows
	}
	return cred, nil
}

type mockInterviewRepo struct {
	interviews map[string]domain.Interview
}

func newMockInterviewRepo() *mockInterviewRepo {
	return &mockInterviewRepo{interviews: make(map[string]domain.Interview)}
}

func (m *mockInterviewRepo) Create(_ context.Context, interview domain.Interview) error {
	m.interviews[interview.ID] = interview
	return nil
}

func (m *mockInterviewRepo) GetByID(_ context.Context, id string) (domain.Interview, error) {
	iv, ok := m.interviews[id]
	if !ok {
		return domain.Interview{}, pgx.ErrNoRows
	}
	return iv, nil
}

func (m *mockInterviewRepo) ListByUser(_ context.Context, userID string) ([]domain.Interview, error) {
	out := make([]domain.Interview, 0)
	for _, iv := range m.interviews {
		if iv.UserID == userID {
			out = append(out, iv)
		}
	}
	sortInterviewsDesc(out)
	return out, nil
}

func (m *mockInterviewRepo) ListLatest(_ context.Context, excludeUserID string, limit int) ([]domain.Interview, error) {
	if limit <= 0 {
		limit = repository.DefaultLatestLimit
	}
	out := make([]domain.Interview, 0)
	for _, iv := range m.interviews {
		if iv.Finalized && iv.UserID != excludeUserID {
			out = append(out, iv)
		}
	}
	sortInterviewsDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockInterviewRepo) MarkFinalized(_ context.Context, id string) error {
	iv, ok := m.interviews[id]
	if !ok {
		return pgx.ErrNoRows
	}
	iv.Finalized = true
	m.interviews[id] = iv
	return nil
}

func sortInterviewsDesc(interviews []domain.Interview) {
	sort.Slice(interviews, func(i, j int) bool {
		if interviews[i].CreatedAt.Equal(interviews[j].CreatedAt) {
			return interviews[i].ID > interviews[j].ID
		}
		return interviews[i].CreatedAt.After(interviews[j].CreatedAt)
	})
}

type mockFeedbackRepo struct {
	byInterview map[string]domain.Feedback
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{byInterview: make(map[string]domain.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, feedback domain.Feedback) error {
	if _, ok := m.byInterview[feedback.InterviewID]; ok {
		return repository.ErrDuplicate
	}
	m.byInterview[feedback.InterviewID] = feedback
	return nil
}

func (m *mockFeedbackRepo) GetByInterviewID(_ context.Context, interviewID string) (domain.Feedback, error) {
	f, ok := m.byInterview[interviewID]
	if !ok {
		return domain.Feedback{}, pgx.ErrNoRows
	}
	return f, nil
}

// testEnv arma el router completo sobre repositorios en memoria.
type testEnv struct {
	router     *gin.Engine
	interviews *mockInterviewRepo
	aiClient   *ai.MockClient
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := newMockUserRepo()
	interviews := newMockInterviewRepo()
	feedback := newMockFeedbackRepo()
	aiClient := &ai.MockClient{}

	provider := identity.NewLocalProvider(newMockIdentityRepo(), "identity-secret")
	sessions := service.NewSessionService(logger, provider, users, "session-secret")
	auth := service.NewAuthService(logger, provider, users, sessions, nil)
	feedbackSvc := service.NewFeedbackService(logger, aiClient, interviews, feedback)

	authH := NewAuthHandler(logger, auth, false)
	interviewH := NewInterviewHandler(logger, interviews, feedbackSvc)

	return &testEnv{
		router:     NewRouter(logger, sessions, authH, interviewH),
		interviews: interviews,
		aiClient:   aiClient,
	}
}
