package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/models"
)

// MemoryStore is an in-memory chatbot.Store for tests and local
// development. All methods are safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	commissions map[int64]models.Commission
	users       map[int64]models.User
	meetings    map[int64]models.Meeting
	pvs         map[int64]models.PV
	members     map[int64]map[int64]bool // commission -> user set
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		commissions: make(map[int64]models.Commission),
		users:       make(map[int64]models.User),
		meetings:    make(map[int64]models.Meeting),
		pvs:         make(map[int64]models.PV),
		members:     make(map[int64]map[int64]bool),
		nextID:      1,
	}
}

var _ chatbot.Store = (*MemoryStore)(nil)

func (m *MemoryStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// Seed helpers.

func (m *MemoryStore) PutUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.allocID()
	} else if u.ID >= m.nextID {
		m.nextID = u.ID + 1
	}
	m.users[u.ID] = u
	return u
}

func (m *MemoryStore) PutCommission(c models.Commission) models.Commission {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.allocID()
	} else if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
	m.commissions[c.ID] = c
	return c
}

func (m *MemoryStore) PutMeeting(mt models.Meeting) models.Meeting {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mt.ID == 0 {
		mt.ID = m.allocID()
	} else if mt.ID >= m.nextID {
		m.nextID = mt.ID + 1
	}
	if mt.CreatedAt.IsZero() {
		mt.CreatedAt = time.Now()
	}
	m.meetings[mt.ID] = mt
	return mt
}

func (m *MemoryStore) PutPV(pv models.PV) models.PV {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pv.ID == 0 {
		pv.ID = m.allocID()
	} else if pv.ID >= m.nextID {
		m.nextID = pv.ID + 1
	}
	if pv.CreatedAt.IsZero() {
		pv.CreatedAt = time.Now()
	}
	m.pvs[pv.ID] = pv
	return pv
}

// Directory lookups.

func (m *MemoryStore) CommissionsByIDOrName(_ context.Context, ident string, limit int) ([]models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, _ := strconv.ParseInt(ident, 10, 64)
	var out []models.Commission
	for _, c := range sortedCommissions(m.commissions) {
		if c.ID == id || c.Name == ident {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryStore) CommissionByExactName(_ context.Context, name string) (*models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.commissions {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CommissionsByNameContains(_ context.Context, substr string, limit int) ([]models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(substr)
	var out []models.Commission
	for _, c := range sortedCommissions(m.commissions) {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) UserByExactName(_ context.Context, name string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) UsersByNameContains(_ context.Context, substr string, limit int) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(substr)
	var out []models.User
	for _, u := range sortedUsers(m.users) {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			out = append(out, u)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryStore) IsMember(_ context.Context, commissionID, userID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[commissionID][userID], nil
}

// Chatbot queries.

func (m *MemoryStore) UserCommissions(_ context.Context, userID int64) ([]models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Commission
	for _, c := range sortedCommissions(m.commissions) {
		if m.members[c.ID][userID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListMeetings(_ context.Context, f chatbot.MeetingFilter) ([]models.Meeting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	allowed := idSet(f.CommissionIDs)
	var out []models.Meeting
	for _, mt := range m.meetings {
		if f.CommissionID != 0 {
			if mt.CommissionID != f.CommissionID {
				continue
			}
		} else if allowed != nil && !allowed[mt.CommissionID] {
			continue
		}
		if f.From != nil && mt.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !mt.Date.Before(*f.To) {
			continue
		}
		mt.CommissionName = m.commissions[mt.CommissionID].Name
		out = append(out, mt)
	}

	sort.Slice(out, func(i, j int) bool {
		if f.Ascending {
			return out[i].Date.Before(out[j].Date)
		}
		return out[j].Date.Before(out[i].Date)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) ListUsers(_ context.Context, f chatbot.UserFilter) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(f.NameOrEmail)
	var out []models.User
	for _, u := range sortedUsers(m.users) {
		if f.CommissionID != 0 && !m.members[f.CommissionID][u.ID] {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		out = append(out, u)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) ListPVs(_ context.Context, f chatbot.PVFilter) ([]models.PV, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	allowed := idSet(f.CommissionIDs)
	needle := strings.ToLower(f.MeetingTitle)
	var out []models.PV
	for _, pv := range m.pvs {
		mt, ok := m.meetings[pv.MeetingID]
		if !ok {
			continue
		}
		if f.CommissionID != 0 {
			if mt.CommissionID != f.CommissionID {
				continue
			}
		} else if allowed != nil && !allowed[mt.CommissionID] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(mt.Title), needle) {
			continue
		}
		if f.From != nil && mt.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !mt.Date.Before(*f.To) {
			continue
		}
		pv.MeetingTitle = mt.Title
		pv.MeetingDate = mt.Date
		pv.CommissionID = mt.CommissionID
		pv.CommissionName = m.commissions[mt.CommissionID].Name
		out = append(out, pv)
	}

	sort.Slice(out, func(i, j int) bool { return out[j].CreatedAt.Before(out[i].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Chatbot mutations and default lookups.

func (m *MemoryStore) CommissionNameExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.commissions {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreateCommission(_ context.Context, c *models.Commission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.allocID()
	c.CreatedAt = time.Now()
	m.commissions[c.ID] = *c
	return nil
}

func (m *MemoryStore) CreateMeeting(_ context.Context, mt *models.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt.ID = m.allocID()
	mt.CreatedAt = time.Now()
	m.meetings[mt.ID] = *mt
	return nil
}

func (m *MemoryStore) AddMember(_ context.Context, commissionID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.members[commissionID] == nil {
		m.members[commissionID] = make(map[int64]bool)
	}
	m.members[commissionID][userID] = true
	return nil
}

func (m *MemoryStore) RemoveMember(_ context.Context, commissionID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members[commissionID], userID)
	return nil
}

func (m *MemoryStore) LastMeetingCommission(_ context.Context, userID int64) (*models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *models.Meeting
	for id := range m.meetings {
		mt := m.meetings[id]
		if !m.members[mt.CommissionID][userID] {
			continue
		}
		if latest == nil || latest.CreatedAt.Before(mt.CreatedAt) {
			latest = &mt
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := m.commissions[latest.CommissionID]
	return &c, nil
}

func (m *MemoryStore) FirstCommission(_ context.Context, userID int64) (*models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range sortedCommissions(m.commissions) {
		if m.members[c.ID][userID] {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) LastPhysicalLocation(_ context.Context, userID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var (
		latest   time.Time
		location string
	)
	for _, mt := range m.meetings {
		if !m.members[mt.CommissionID][userID] {
			continue
		}
		if mt.Location == "" || isRemoteLocation(mt.Location) {
			continue
		}
		if mt.Date.After(latest) {
			latest = mt.Date
			location = mt.Location
		}
	}
	return location, nil
}

func (m *MemoryStore) PVByID(_ context.Context, id int64) (*models.PV, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pv, ok := m.pvs[id]
	if !ok {
		return nil, nil
	}
	if mt, ok := m.meetings[pv.MeetingID]; ok {
		pv.MeetingTitle = mt.Title
		pv.MeetingDate = mt.Date
		pv.CommissionID = mt.CommissionID
		pv.CommissionName = m.commissions[mt.CommissionID].Name
	}
	return &pv, nil
}

// Account and CRUD operations used by the HTTP API.

func (m *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.allocID()
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) UserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryStore) ListCommissions(_ context.Context) ([]models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedCommissions(m.commissions), nil
}

func (m *MemoryStore) CommissionByID(_ context.Context, id int64) (*models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.commissions[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MemoryStore) UpdateCommission(_ context.Context, c *models.Commission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.commissions[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	m.commissions[c.ID] = *c
	return nil
}

func (m *MemoryStore) DeleteCommission(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.commissions[id]; !ok {
		return ErrNotFound
	}
	delete(m.commissions, id)
	delete(m.members, id)
	return nil
}

func (m *MemoryStore) MeetingByID(_ context.Context, id int64) (*models.Meeting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.meetings[id]
	if !ok {
		return nil, nil
	}
	mt.CommissionName = m.commissions[mt.CommissionID].Name
	return &mt, nil
}

func (m *MemoryStore) UpdateMeeting(_ context.Context, mt *models.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.meetings[mt.ID]
	if !ok {
		return ErrNotFound
	}
	mt.CreatedAt = existing.CreatedAt
	m.meetings[mt.ID] = *mt
	return nil
}

func (m *MemoryStore) DeleteMeeting(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.meetings[id]; !ok {
		return ErrNotFound
	}
	delete(m.meetings, id)
	return nil
}

func (m *MemoryStore) CreatePV(_ context.Context, pv *models.PV) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pv.ID = m.allocID()
	pv.CreatedAt = time.Now()
	m.pvs[pv.ID] = *pv
	return nil
}

func isRemoteLocation(location string) bool {
	l := strings.ToLower(location)
	return strings.Contains(l, "remote") || strings.Contains(l, "online") || strings.Contains(l, "visio")
}

func idSet(ids []int64) map[int64]bool {
	if ids == nil {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortedCommissions(in map[int64]models.Commission) []models.Commission {
	out := make([]models.Commission, 0, len(in))
	for _, c := range in {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedUsers(in map[int64]models.User) []models.User {
	out := make([]models.User, 0, len(in))
	for _, u := range in {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
