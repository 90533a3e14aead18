package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"survivor-league/database"
	"survivor-league/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryContestants struct {
	byID map[int]*models.Contestant
}

func newMemoryContestants(contestants ...*models.Contestant) *memoryContestants {
	m := &memoryContestants{byID: make(map[int]*models.Contestant)}
	for _, c := range contestants {
		m.byID[c.ID] = c
	}
	return m
}

func (m *memoryContestants) FindBySeason(ctx context.Context, season int) ([]*models.Contestant, error) {
	var result []*models.Contestant
	for _, c := range m.byID {
		if c.Season == season {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memoryContestants) FindByID(ctx context.Context, id int) (*models.Contestant, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryContestants) UpdateStats(ctx context.Context, contestant *models.Contestant) error {
	if _, ok := m.byID[contestant.ID]; !ok {
		return database.ErrNotFound
	}
	cp := *contestant
	m.byID[contestant.ID] = &cp
	return nil
}

type memoryTribes struct {
	tribes []*models.PlayerTribe
}

func (m *memoryTribes) Create(ctx context.Context, tribe *models.PlayerTribe) error {
	tribe.ID = primitive.NewObjectID()
	cp := *tribe
	m.tribes = append(m.tribes, &cp)
	return nil
}

func (m *memoryTribes) FindBySeason(ctx context.Context, season int) ([]*models.PlayerTribe, error) {
	return m.filter(func(t *models.PlayerTribe) bool { return t.Season == season }), nil
}

func (m *memoryTribes) FindByPlayer(ctx context.Context, playerID int) ([]*models.PlayerTribe, error) {
	return m.filter(func(t *models.PlayerTribe) bool { return t.PlayerID == playerID }), nil
}

func (m *memoryTribes) filter(keep func(*models.PlayerTribe) bool) []*models.PlayerTribe {
	var result []*models.PlayerTribe
	for _, t := range m.tribes {
		if keep(t) {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result
}

type memoryPlayers struct {
	mu      sync.Mutex
	byID    map[int]*models.Player
	nextID  int
	created int
}

func newMemoryPlayers(players ...*models.Player) *memoryPlayers {
	m := &memoryPlayers{byID: make(map[int]*models.Player), nextID: 1}
	for _, p := range players {
		m.byID[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *memoryPlayers) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	email = models.NormalizeEmail(email)
	for _, p := range m.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memoryPlayers) GetByID(ctx context.Context, id int) (*models.Player, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, database.ErrNotFound
}

func (m *memoryPlayers) GetByLoginSelector(ctx context.Context, selector string) (*models.Player, error) {
	for _, p := range m.byID {
		if p.LoginSelector != "" && p.LoginSelector == selector {
			return p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memoryPlayers) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error) {
	result := make(map[int]*models.Player)
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (m *memoryPlayers) Create(ctx context.Context, player *models.Player) error {
	if _, err := m.GetByEmail(ctx, player.Email); err == nil {
		return fmt.Errorf("player %s: %w", player.Email, database.ErrDuplicate)
	}
	player.ID = m.nextID
	m.nextID++
	m.created++
	m.byID[player.ID] = player
	return nil
}

func (m *memoryPlayers) SaveLoginToken(ctx context.Context, player *models.Player) error {
	m.byID[player.ID] = player
	return nil
}

func (m *memoryPlayers) AddTribe(ctx context.Context, playerID int, tribeID primitive.ObjectID) error {
	p, ok := m.byID[playerID]
	if !ok {
		return database.ErrNotFound
	}
	p.TribeIDs = append(p.TribeIDs, tribeID)
	return nil
}

func (m *memoryPlayers) AddBadge(ctx context.Context, playerID int, badge models.EarnedBadge) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[playerID]
	if !ok {
		return false, nil
	}
	if p.HasBadge(badge.Code, badge.Season) {
		return false, nil
	}
	p.Badges = append(p.Badges, badge)
	return true, nil
}

type memoryPickEms struct {
	byID   map[int]*models.PickEm
	nextID int
}

func newMemoryPickEms(markets ...*models.PickEm) *memoryPickEms {
	m := &memoryPickEms{byID: make(map[int]*models.PickEm), nextID: 1}
	for _, p := range markets {
		m.byID[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *memoryPickEms) Create(ctx context.Context, market *models.PickEm) error {
	market.ID = m.nextID
	m.nextID++
	m.byID[market.ID] = market
	return nil
}

func (m *memoryPickEms) FindByID(ctx context.Context, id int) (*models.PickEm, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPickEms) FindBySeasonWeek(ctx context.Context, season, week int) ([]*models.PickEm, error) {
	return m.filter(func(p *models.PickEm) bool { return p.Season == season && p.Week == week }), nil
}

func (m *memoryPickEms) FindBySeason(ctx context.Context, season int) ([]*models.PickEm, error) {
	return m.filter(func(p *models.PickEm) bool { return p.Season == season }), nil
}

func (m *memoryPickEms) filter(keep func(*models.PickEm) bool) []*models.PickEm {
	var result []*models.PickEm
	for _, p := range m.byID {
		if keep(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *memoryPickEms) SetAnswers(ctx context.Context, id int, answers []int) error {
	p, ok := m.byID[id]
	if !ok || p.IsScored() {
		return database.ErrNotFound
	}
	p.Answers = answers
	return nil
}

type memoryPicks struct {
	picks   map[string]*models.Pick
	upserts int
}

func newMemoryPicks(picks ...*models.Pick) *memoryPicks {
	m := &memoryPicks{picks: make(map[string]*models.Pick)}
	for _, p := range picks {
		m.picks[pickKey(p)] = p
	}
	return m
}

func pickKey(p *models.Pick) string {
	return fmt.Sprintf("%d/%d", p.PlayerID, p.PickEmID)
}

func (m *memoryPicks) UpsertMany(ctx context.Context, picks []*models.Pick) error {
	m.upserts++
	for _, p := range picks {
		cp := *p
		m.picks[pickKey(p)] = &cp
	}
	return nil
}

func (m *memoryPicks) FindByPlayerAndWeek(ctx context.Context, playerID, season, week int) ([]*models.Pick, error) {
	return m.filter(func(p *models.Pick) bool {
		return p.PlayerID == playerID && p.Season == season && p.Week == week
	}), nil
}

func (m *memoryPicks) FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error) {
	return m.filter(func(p *models.Pick) bool { return p.Season == season && p.Week == week }), nil
}

func (m *memoryPicks) FindBySeason(ctx context.Context, season int) ([]*models.Pick, error) {
	return m.filter(func(p *models.Pick) bool { return p.Season == season }), nil
}

func (m *memoryPicks) filter(keep func(*models.Pick) bool) []*models.Pick {
	var result []*models.Pick
	for _, p := range m.picks {
		if keep(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return pickKey(result[i]) < pickKey(result[j]) })
	return result
}

type countingTransactor struct {
	calls int
}

func (c *countingTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

type memoryStore struct {
	dumps    map[string]string
	restored map[string]string
}

func (m *memoryStore) DumpCollection(ctx context.Context, name string, w io.Writer) (int, error) {
	body := m.dumps[name]
	if _, err := io.WriteString(w, body); err != nil {
		return 0, err
	}
	return strings.Count(body, "\n"), nil
}

func (m *memoryStore) RestoreCollection(ctx context.Context, name string, r io.Reader) (int, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if m.restored == nil {
		m.restored = make(map[string]string)
	}
	m.restored[name] = string(body)
	return strings.Count(string(body), "\n"), nil
}

type memoryUploader struct {
	objects map[string]string
}

func (m *memoryUploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects = make(map[string]string)
	}
	m.objects[key] = string(data)
	return nil
}
