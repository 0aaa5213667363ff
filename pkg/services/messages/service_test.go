package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
	"github.com/de-tools/emotion-atlas/pkg/models/store"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(ctx context.Context, message *store.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*store.Message, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Message), args.Error(1)
}

func (m *mockStore) CountByDominantEmotion(ctx context.Context, userID string) ([]store.DominantEmotionCount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.DominantEmotionCount), args.Error(1)
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Archive(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 8, 1, 15, 30, 0, 0, time.UTC)

func newTestService(st *mockStore, ar *mockArchiver) *service {
	svc := NewService(analysis.NewAnalyzer(analysis.Options{}), st, ar).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func history() []domain.RawSample {
	return []domain.RawSample{
		{Timestamp: "2025-08-01T15:27:55Z", Percentages: domain.CategoryValues{
			{Category: "neutral", Value: 80}, {Category: "surprised", Value: 10}, {Category: "angry", Value: 10},
		}},
		{Timestamp: "2025-08-01T15:28:05Z", Percentages: domain.CategoryValues{
			{Category: "neutral", Value: 20}, {Category: "surprised", Value: 75}, {Category: "angry", Value: 5},
		}},
	}
}

func TestService_Add(t *testing.T) {
	st := new(mockStore)
	ar := new(mockArchiver)
	svc := newTestService(st, ar)

	var stored *store.Message
	st.On("Add", mock.Anything, mock.AnythingOfType("*store.Message")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*store.Message) }).
		Return(nil).Once()
	ar.On("Archive", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > len("user%2F1/") && key[:len("user%2F1/")] == "user%2F1/"
	}), mock.Anything).Return(nil).Once()

	got, err := svc.Add(context.Background(), domain.Message{
		UserID:     "user/1",
		SenderName: "Fatima",
		Content:    "Thanks, I'll review the documents now.",
		History:    history(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.Message.ID)
	assert.Equal(t, "surprised", got.Message.DominantEmotion)
	assert.Equal(t, fixedNow, got.Message.SentAt)
	assert.Equal(t, fixedNow, got.Message.CreatedAt)

	var report map[string]any
	require.NoError(t, json.Unmarshal(got.Analysis, &report))
	assert.Contains(t, report, "emotion_statistics")

	require.NotNil(t, stored)
	assert.Equal(t, got.Message.ID, stored.ID)
	assert.Equal(t, got.Analysis, stored.Analysis)
	assert.Contains(t, string(stored.History), `"timestamp":"2025-08-01T15:27:55Z"`)

	st.AssertExpectations(t)
	ar.AssertExpectations(t)
}

func TestService_Add_KeepsProvidedDominantEmotion(t *testing.T) {
	st := new(mockStore)
	ar := new(mockArchiver)
	svc := newTestService(st, ar)
	st.On("Add", mock.Anything, mock.Anything).Return(nil)
	ar.On("Archive", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sentAt := time.Date(2025, 8, 1, 15, 28, 15, 0, time.UTC)
	got, err := svc.Add(context.Background(), domain.Message{
		UserID:          "u1",
		Content:         "hi",
		DominantEmotion: "calm",
		SentAt:          sentAt,
		History:         history(),
	})
	require.NoError(t, err)
	assert.Equal(t, "calm", got.Message.DominantEmotion)
	assert.Equal(t, sentAt, got.Message.SentAt)
}

func TestService_Add_EmptyHistoryDefaultsToNeutral(t *testing.T) {
	st := new(mockStore)
	ar := new(mockArchiver)
	svc := newTestService(st, ar)
	st.On("Add", mock.Anything, mock.Anything).Return(nil)
	ar.On("Archive", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Add(context.Background(), domain.Message{UserID: "u1", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "neutral", got.Message.DominantEmotion)
	assert.Contains(t, string(got.Analysis), analysis.NoDataForecastNote)
}

func TestService_Add_MalformedHistory(t *testing.T) {
	st := new(mockStore)
	ar := new(mockArchiver)
	svc := newTestService(st, ar)

	h := history()
	h[1].Timestamp = "later"
	_, err := svc.Add(context.Background(), domain.Message{UserID: "u1", Content: "hi", History: h})
	assert.ErrorIs(t, err, analysis.ErrMalformedInput)
	st.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	ar.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Add_StoreFailure(t *testing.T) {
	st := new(mockStore)
	ar := new(mockArchiver)
	svc := newTestService(st, ar)
	st.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Add(context.Background(), domain.Message{UserID: "u1", Content: "hi", History: history()})
	assert.ErrorContains(t, err, "failed to store message")
	ar.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Add_ArchiveFailureIsNotFatal(t *testing.T) {
	st := new(mockStore)
	ar := new(mockArchiver)
	svc := newTestService(st, ar)
	st.On("Add", mock.Anything, mock.Anything).Return(nil)
	ar.On("Archive", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("breaker open"))

	_, err := svc.Add(context.Background(), domain.Message{UserID: "u1", Content: "hi", History: history()})
	assert.NoError(t, err)
}

func TestService_History(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st, new(mockArchiver))

	st.On("ListByUser", mock.Anything, "u1", MaxPageLimit, 0).Return([]*store.Message{
		{
			ID:       "m1",
			UserID:   "u1",
			Content:  "hi",
			History:  []byte(`[{"timestamp":"2025-08-01T15:27:55Z","emotion_percentage":{"neutral":80,"angry":20}}]`),
			Analysis: []byte(`{"predictions":{"note":"x"}}`),
		},
	}, nil).Once()

	got, err := svc.History(context.Background(), "u1", domain.Page{Limit: 500, Offset: -3})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.CategoryValues{
		{Category: "neutral", Value: 80},
		{Category: "angry", Value: 20},
	}, got[0].Message.History[0].Percentages)
	st.AssertExpectations(t)
}

func TestService_History_CorruptRow(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st, new(mockArchiver))
	st.On("ListByUser", mock.Anything, "u1", DefaultPageLimit, 0).
		Return([]*store.Message{{ID: "m1", History: []byte("{not json")}}, nil)

	_, err := svc.History(context.Background(), "u1", domain.Page{})
	assert.ErrorContains(t, err, "m1")
}

func TestService_Stats(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st, new(mockArchiver))
	st.On("CountByDominantEmotion", mock.Anything, "u1").Return([]store.DominantEmotionCount{
		{Emotion: "happy", Count: 3},
		{Emotion: "sad", Count: 1},
	}, nil)

	got, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Total)
	assert.Equal(t, map[string]int64{"happy": 3, "sad": 1}, got.ByDominant)
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, domain.Page{Limit: DefaultPageLimit}, NormalizePage(domain.Page{}))
	assert.Equal(t, domain.Page{Limit: MaxPageLimit, Offset: 0}, NormalizePage(domain.Page{Limit: 1000, Offset: -1}))
	assert.Equal(t, domain.Page{Limit: 5, Offset: 10}, NormalizePage(domain.Page{Limit: 5, Offset: 10}))
}
