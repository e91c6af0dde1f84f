package services

import (
	"context"
	"sort"
	"time"

	"questhub/internal/models"
	"questhub/internal/repositories"
)

// memStore is an in-memory Store used to exercise the coordinator without a
// database. WithTransaction snapshots all three collections and restores
// them when the callback fails, mirroring the atomic all-or-nothing
// contract. conflictsBeforeCommit aborts that many transactions with
// ErrConflict first, to simulate serialization failures.
type memStore struct {
	quests map[int64]*models.Quest
	apps   map[int64]*models.Application
	users  map[int64]*models.User
	nextID int64

	conflictsBeforeCommit int
	txCount               int
}

func newMemStore() *memStore {
	return &memStore{
		quests: make(map[int64]*models.Quest),
		apps:   make(map[int64]*models.Application),
		users:  make(map[int64]*models.User),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(u models.User) *models.User {
	u.ID = m.id()
	if u.UnlockedAchievements == nil {
		u.UnlockedAchievements = []string{}
	}
	m.users[u.ID] = &u
	return &u
}

func (m *memStore) addQuest(q models.Quest) *models.Quest {
	q.ID = m.id()
	if q.Status == "" {
		q.Status = models.QuestStatusOpen
	}
	q.CreatedAt = time.Now()
	m.quests[q.ID] = &q
	return &q
}

func (m *memStore) addApplication(a models.Application) *models.Application {
	a.ID = m.id()
	if a.Status == "" {
		a.Status = models.ApplicationStatusPending
	}
	a.CreatedAt = time.Now()
	m.apps[a.ID] = &a
	return &a
}

func (m *memStore) Quests() repositories.QuestRepository            { return (*memQuests)(m) }
func (m *memStore) Applications() repositories.ApplicationRepository { return (*memApps)(m) }
func (m *memStore) Users() repositories.UserRepository              { return (*memUsers)(m) }

func (m *memStore) WithTransaction(ctx context.Context, fn func(repositories.Store) error) error {
	m.txCount++

	snapQuests := make(map[int64]*models.Quest, len(m.quests))
	for k, v := range m.quests {
		q := *v
		snapQuests[k] = &q
	}
	snapApps := make(map[int64]*models.Application, len(m.apps))
	for k, v := range m.apps {
		a := *v
		snapApps[k] = &a
	}
	snapUsers := make(map[int64]*models.User, len(m.users))
	for k, v := range m.users {
		u := *v
		u.UnlockedAchievements = append([]string(nil), v.UnlockedAchievements...)
		snapUsers[k] = &u
	}

	restore := func() {
		m.quests = snapQuests
		m.apps = snapApps
		m.users = snapUsers
	}

	if err := fn(m); err != nil {
		restore()
		return err
	}

	if m.conflictsBeforeCommit > 0 {
		m.conflictsBeforeCommit--
		restore()
		return repositories.ErrConflict
	}

	return nil
}

// ===============================
// QUEST REPOSITORY
// ===============================

type memQuests memStore

func (m *memQuests) Create(ctx context.Context, quest *models.Quest) error {
	q := (*memStore)(m).addQuest(*quest)
	*quest = *q
	return nil
}

func (m *memQuests) GetByID(ctx context.Context, id int64) (*models.Quest, error) {
	q, ok := m.quests[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (m *memQuests) Delete(ctx context.Context, id int64) error {
	delete(m.quests, id)
	for appID, app := range m.apps {
		if app.QuestID == id {
			delete(m.apps, appID)
		}
	}
	return nil
}

func (m *memQuests) MarkInProgress(ctx context.Context, questID, hiredApplicantID int64) error {
	if q, ok := m.quests[questID]; ok {
		q.Status = models.QuestStatusInProgress
		id := hiredApplicantID
		q.HiredApplicantID = &id
	}
	return nil
}

func (m *memQuests) MarkCompleted(ctx context.Context, questID int64, completedAt time.Time) error {
	if q, ok := m.quests[questID]; ok {
		q.Status = models.QuestStatusCompleted
		at := completedAt
		q.CompletedAt = &at
	}
	return nil
}

func (m *memQuests) Archive(ctx context.Context, questID int64) error {
	if q, ok := m.quests[questID]; ok {
		q.Status = models.QuestStatusArchived
	}
	return nil
}

func (m *memQuests) ListByGiver(ctx context.Context, giverID int64, statuses []models.QuestStatus, limit int) ([]*models.Quest, error) {
	var out []*models.Quest
	for _, q := range m.quests {
		if q.QuestGiverID != giverID {
			continue
		}
		if len(statuses) > 0 && !questStatusIn(q.Status, statuses) {
			continue
		}
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memQuests) CountByGiverAndStatus(ctx context.Context, giverID int64, statuses []models.QuestStatus) (int64, error) {
	var count int64
	for _, q := range m.quests {
		if q.QuestGiverID != giverID {
			continue
		}
		if len(statuses) > 0 && !questStatusIn(q.Status, statuses) {
			continue
		}
		count++
	}
	return count, nil
}

func questStatusIn(status models.QuestStatus, statuses []models.QuestStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// ===============================
// APPLICATION REPOSITORY
// ===============================

type memApps memStore

func (m *memApps) Create(ctx context.Context, app *models.Application) error {
	a := (*memStore)(m).addApplication(*app)
	*app = *a
	return nil
}

func (m *memApps) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memApps) SetStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	if a, ok := m.apps[id]; ok {
		a.Status = status
	}
	return nil
}

func (m *memApps) SetRating(ctx context.Context, id int64, rating int) error {
	if a, ok := m.apps[id]; ok {
		r := rating
		a.GiverRating = &r
		a.GiverRated = true
	}
	return nil
}

func (m *memApps) RejectPendingForQuest(ctx context.Context, questID, exceptID int64) (int64, error) {
	var rejected int64
	for _, a := range m.apps {
		if a.QuestID == questID && a.ID != exceptID && a.Status == models.ApplicationStatusPending {
			a.Status = models.ApplicationStatusRejected
			rejected++
		}
	}
	return rejected, nil
}

func (m *memApps) FindHired(ctx context.Context, questID, applicantID int64) (*models.Application, error) {
	var best *models.Application
	for _, a := range m.apps {
		if a.QuestID != questID || a.ApplicantID != applicantID {
			continue
		}
		if a.Status != models.ApplicationStatusHired && a.Status != models.ApplicationStatusCompleted {
			continue
		}
		if best == nil || a.CreatedAt.After(best.CreatedAt) {
			best = a
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memApps) CountPendingByQuest(ctx context.Context, questID int64) (int64, error) {
	var count int64
	for _, a := range m.apps {
		if a.QuestID == questID && a.Status == models.ApplicationStatusPending {
			count++
		}
	}
	return count, nil
}

func (m *memApps) CountPendingByGiver(ctx context.Context, giverID int64) (int64, error) {
	var count int64
	for _, a := range m.apps {
		if a.QuestGiverID == giverID && a.Status == models.ApplicationStatusPending {
			count++
		}
	}
	return count, nil
}

// ===============================
// USER REPOSITORY
// ===============================

type memUsers memStore

func (m *memUsers) Create(ctx context.Context, user *models.User) error {
	u := (*memStore)(m).addUser(*user)
	*user = *u
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.UnlockedAchievements = append([]string(nil), u.UnlockedAchievements...)
	return &cp, nil
}

func (m *memUsers) CreditQuestCompleted(ctx context.Context, userID int64, newAchievements []string) error {
	if u, ok := m.users[userID]; ok {
		u.QuestsCompleted++
		u.UnlockedAchievements = mergeAchievementSet(u.UnlockedAchievements, newAchievements)
	}
	return nil
}

func (m *memUsers) CreditQuestGiven(ctx context.Context, userID int64, newAchievements []string) error {
	if u, ok := m.users[userID]; ok {
		u.QuestsGivenCompleted++
		u.UnlockedAchievements = mergeAchievementSet(u.UnlockedAchievements, newAchievements)
	}
	return nil
}

func (m *memUsers) ApplyRating(ctx context.Context, userID int64, rating int, newAchievements []string) error {
	if u, ok := m.users[userID]; ok {
		u.TotalRatingScore += rating
		u.NumberOfRatings++
		u.UnlockedAchievements = mergeAchievementSet(u.UnlockedAchievements, newAchievements)
	}
	return nil
}

func (m *memUsers) TopByMetric(ctx context.Context, metric string, limit int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := userMetric(out[i], metric), userMetric(out[j], metric)
		if vi != vj {
			return vi > vj
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func userMetric(u *models.User, metric string) int {
	switch metric {
	case repositories.MetricQuestsGivenCompleted:
		return u.QuestsGivenCompleted
	case repositories.MetricNumberOfRatings:
		return u.NumberOfRatings
	default:
		return u.QuestsCompleted
	}
}

func mergeAchievementSet(existing, incoming []string) []string {
	out := append([]string(nil), existing...)
	for _, id := range incoming {
		found := false
		for _, have := range out {
			if have == id {
				found = true
				break
			}
		}
		if !found {
			out = append(out, id)
		}
	}
	return out
}
