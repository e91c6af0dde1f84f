package services

import (
	"context"
	"testing"
	"time"

	"questhub/internal/cache"
	"questhub/internal/models"
	"questhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestQuery(t *testing.T, store *memStore) QueryService {
	t.Helper()
	c := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return NewQueryService(store, c, zap.NewNop(), time.Minute)
}

func TestListQuestsByGiverTabFilter(t *testing.T) {
	store := newMemStore()
	svc := newTestQuery(t, store)
	giver := store.addUser(models.User{Username: "giver"})

	open := store.addQuest(models.Quest{QuestGiverID: giver.ID, Status: models.QuestStatusOpen})
	inProgress := store.addQuest(models.Quest{QuestGiverID: giver.ID, Status: models.QuestStatusInProgress})
	completed := store.addQuest(models.Quest{QuestGiverID: giver.ID, Status: models.QuestStatusCompleted})
	archived := store.addQuest(models.Quest{QuestGiverID: giver.ID, Status: models.QuestStatusArchived})

	// someone else's quest never shows up
	other := store.addUser(models.User{Username: "other"})
	store.addQuest(models.Quest{QuestGiverID: other.ID, Status: models.QuestStatusOpen})

	ctx := context.Background()

	active, err := svc.ListQuestsByGiver(ctx, &ListQuestsRequest{GiverID: giver.ID, Tab: TabActive})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{open.ID, inProgress.ID}, questIDs(active))

	done, err := svc.ListQuestsByGiver(ctx, &ListQuestsRequest{GiverID: giver.ID, Tab: TabCompleted})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{completed.ID}, questIDs(done))

	arch, err := svc.ListQuestsByGiver(ctx, &ListQuestsRequest{GiverID: giver.ID, Tab: TabArchived})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{archived.ID}, questIDs(arch))

	all, err := svc.ListQuestsByGiver(ctx, &ListQuestsRequest{GiverID: giver.ID})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func questIDs(quests []*models.Quest) []int64 {
	ids := make([]int64, len(quests))
	for i, q := range quests {
		ids[i] = q.ID
	}
	return ids
}

func TestCountPendingApplications(t *testing.T) {
	store := newMemStore()
	svc := newTestQuery(t, store)
	giver := store.addUser(models.User{Username: "giver"})
	quest := store.addQuest(models.Quest{QuestGiverID: giver.ID})

	for i := 0; i < 3; i++ {
		q := store.addUser(models.User{Username: "q"})
		store.addApplication(models.Application{QuestID: quest.ID, ApplicantID: q.ID, QuestGiverID: giver.ID})
	}
	rejected := store.addUser(models.User{Username: "r"})
	app := store.addApplication(models.Application{QuestID: quest.ID, ApplicantID: rejected.ID, QuestGiverID: giver.ID})
	store.apps[app.ID].Status = models.ApplicationStatusRejected

	count, err := svc.CountPendingApplications(context.Background(), quest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	forGiver, err := svc.CountPendingApplicationsForGiver(context.Background(), giver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), forGiver)
}

func TestCountPendingApplicationsServedFromCache(t *testing.T) {
	store := newMemStore()
	svc := newTestQuery(t, store)
	giver := store.addUser(models.User{Username: "giver"})
	quest := store.addQuest(models.Quest{QuestGiverID: giver.ID})
	q := store.addUser(models.User{Username: "q"})
	store.addApplication(models.Application{QuestID: quest.ID, ApplicantID: q.ID, QuestGiverID: giver.ID})

	ctx := context.Background()
	count, err := svc.CountPendingApplications(ctx, quest.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// Underlying data changes; within the TTL the cached value still serves
	q2 := store.addUser(models.User{Username: "q2"})
	store.addApplication(models.Application{QuestID: quest.ID, ApplicantID: q2.ID, QuestGiverID: giver.ID})

	count, err = svc.CountPendingApplications(ctx, quest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGiverDashboard(t *testing.T) {
	store := newMemStore()
	svc := newTestQuery(t, store)
	giver := store.addUser(models.User{Username: "giver"})

	open := store.addQuest(models.Quest{QuestGiverID: giver.ID, Status: models.QuestStatusOpen})
	store.addQuest(models.Quest{QuestGiverID: giver.ID, Status: models.QuestStatusInProgress})
	store.addQuest(models.Quest{QuestGiverID: giver.ID, Status: models.QuestStatusCompleted})

	q := store.addUser(models.User{Username: "q"})
	store.addApplication(models.Application{QuestID: open.ID, ApplicantID: q.ID, QuestGiverID: giver.ID})

	dashboard, err := svc.GiverDashboard(context.Background(), giver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.PendingApplications)
	assert.Equal(t, int64(2), dashboard.HiredQuests)
	assert.Equal(t, int64(3), dashboard.PostedQuests)
}

func TestTopUsers(t *testing.T) {
	store := newMemStore()
	svc := newTestQuery(t, store)

	store.addUser(models.User{Username: "low", QuestsCompleted: 1})
	high := store.addUser(models.User{Username: "high", QuestsCompleted: 9})
	mid := store.addUser(models.User{Username: "mid", QuestsCompleted: 4})

	users, err := svc.TopUsers(context.Background(), repositories.MetricQuestsCompleted, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, high.ID, users[0].ID)
	assert.Equal(t, mid.ID, users[1].ID)
}

func TestFindHiredApplication(t *testing.T) {
	store := newMemStore()
	svc := newTestQuery(t, store)
	giver := store.addUser(models.User{Username: "giver"})
	quester := store.addUser(models.User{Username: "quester"})
	quest := store.addQuest(models.Quest{QuestGiverID: giver.ID})

	app := store.addApplication(models.Application{
		QuestID:      quest.ID,
		ApplicantID:  quester.ID,
		QuestGiverID: giver.ID,
		Status:       models.ApplicationStatusHired,
	})

	got, err := svc.FindHiredApplication(context.Background(), quest.ID, quester.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, app.ID, got.ID)

	none, err := svc.FindHiredApplication(context.Background(), quest.ID, giver.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRatingEligible(t *testing.T) {
	store := newMemStore()
	svc := newTestQuery(t, store)
	giver := store.addUser(models.User{Username: "giver"})
	quester := store.addUser(models.User{Username: "quester"})
	quest := store.addQuest(models.Quest{QuestGiverID: giver.ID})

	app := store.addApplication(models.Application{
		QuestID:      quest.ID,
		ApplicantID:  quester.ID,
		QuestGiverID: giver.ID,
		Status:       models.ApplicationStatusCompleted,
	})

	ok, err := svc.RatingEligible(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	store.apps[app.ID].GiverRated = true
	ok, err = svc.RatingEligible(context.Background(), app.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.RatingEligible(context.Background(), 99999)
	require.NoError(t, err)
	assert.False(t, ok)
}
