package service_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"zillowlike.app/api/common/llm"
	"zillowlike.app/api/internal/media"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/queue"
	"zillowlike.app/api/internal/service"
	"zillowlike.app/api/internal/store"
)

type mockUserStore struct {
	getByIDFn     func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn  func(ctx context.Context, email string) (*model.User, error)
	upsertFn      func(ctx context.Context, user *model.User) error
	updateFn      func(ctx context.Context, user *model.User) error
	updateRoleFn  func(ctx context.Context, id int64, role model.Role) (*model.User, error)
	listFn        func(ctx context.Context, role *model.Role, limit, offset int32) ([]model.User, error)
	countByRoleFn func(ctx context.Context) (map[model.Role]int64, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByWorkOSID(ctx context.Context, _ string) (*model.User, error) {
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, _ *model.User) error {
	return nil
}

func (m *mockUserStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpdateRole(ctx context.Context, id int64, role model.Role) (*model.User, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, id, role)
	}
	return &model.User{ID: id, Role: role}, nil
}

func (m *mockUserStore) List(ctx context.Context, role *model.Role, limit, offset int32) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, role, limit, offset)
	}
	return nil, nil
}

func (m *mockUserStore) CountByRole(ctx context.Context) (map[model.Role]int64, error) {
	if m.countByRoleFn != nil {
		return m.countByRoleFn(ctx)
	}
	return map[model.Role]int64{}, nil
}

type mockSessionStore struct {
	getValidFn      func(ctx context.Context, tokenHash []byte) (*model.Session, error)
	createFn        func(ctx context.Context, session *model.Session) error
	deleteFn        func(ctx context.Context, tokenHash []byte) error
	deleteByUserFn  func(ctx context.Context, userID int64) error
	deleteExpiredFn func(ctx context.Context) (int64, error)
}

func (m *mockSessionStore) GetValid(ctx context.Context, tokenHash []byte) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, tokenHash)
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, tokenHash []byte) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tokenHash)
	}
	return nil
}

func (m *mockSessionStore) DeleteByUser(ctx context.Context, userID int64) error {
	if m.deleteByUserFn != nil {
		return m.deleteByUserFn(ctx, userID)
	}
	return nil
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

type mockPropertyStore struct {
	getByIDFn        func(ctx context.Context, id int64) (*model.Property, error)
	createFn         func(ctx context.Context, p *model.Property) error
	updateFn         func(ctx context.Context, p *model.Property) error
	updateStatusFn   func(ctx context.Context, id int64, status model.PropertyStatus) error
	deleteFn         func(ctx context.Context, id int64) error
	searchFn         func(ctx context.Context, f model.PropertyFilter) ([]model.Property, error)
	listByIDsFn      func(ctx context.Context, ids []int64) ([]model.Property, error)
	incrementViewsFn func(ctx context.Context, id int64) error
	countByStatusFn  func(ctx context.Context) (map[model.PropertyStatus]int64, error)
}

func (m *mockPropertyStore) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockPropertyStore) Create(ctx context.Context, p *model.Property) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockPropertyStore) Update(ctx context.Context, p *model.Property) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockPropertyStore) UpdateStatus(ctx context.Context, id int64, status model.PropertyStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockPropertyStore) UpdateDescription(ctx context.Context, _ int64, _ string) error {
	return nil
}

func (m *mockPropertyStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockPropertyStore) Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, f)
	}
	return nil, nil
}

func (m *mockPropertyStore) ListByIDs(ctx context.Context, ids []int64) ([]model.Property, error) {
	if m.listByIDsFn != nil {
		return m.listByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockPropertyStore) IncrementViews(ctx context.Context, id int64) error {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, id)
	}
	return nil
}

func (m *mockPropertyStore) CountByStatus(ctx context.Context) (map[model.PropertyStatus]int64, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx)
	}
	return map[model.PropertyStatus]int64{}, nil
}

type mockImageStore struct {
	createFn           func(ctx context.Context, img *model.Image) error
	getByIDFn          func(ctx context.Context, id int64) (*model.Image, error)
	deleteFn           func(ctx context.Context, id int64) error
	listByPropertyFn   func(ctx context.Context, propertyID int64) ([]model.Image, error)
	listByPropertiesFn func(ctx context.Context, ids []int64) (map[int64][]model.Image, error)
	countFn            func(ctx context.Context, propertyID int64) (int, error)
	nextSortOrderFn    func(ctx context.Context, propertyID int64) (int, error)
	setSortOrderFn     func(ctx context.Context, propertyID int64, order map[int64]int) error
}

func (m *mockImageStore) Create(ctx context.Context, img *model.Image) error {
	if m.createFn != nil {
		return m.createFn(ctx, img)
	}
	return nil
}

func (m *mockImageStore) GetByID(ctx context.Context, id int64) (*model.Image, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockImageStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockImageStore) ListByProperty(ctx context.Context, propertyID int64) ([]model.Image, error) {
	if m.listByPropertyFn != nil {
		return m.listByPropertyFn(ctx, propertyID)
	}
	return nil, nil
}

func (m *mockImageStore) ListByProperties(ctx context.Context, ids []int64) (map[int64][]model.Image, error) {
	if m.listByPropertiesFn != nil {
		return m.listByPropertiesFn(ctx, ids)
	}
	return map[int64][]model.Image{}, nil
}

func (m *mockImageStore) CountByProperty(ctx context.Context, propertyID int64) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, propertyID)
	}
	return 0, nil
}

func (m *mockImageStore) NextSortOrder(ctx context.Context, propertyID int64) (int, error) {
	if m.nextSortOrderFn != nil {
		return m.nextSortOrderFn(ctx, propertyID)
	}
	return 0, nil
}

func (m *mockImageStore) SetSortOrder(ctx context.Context, propertyID int64, order map[int64]int) error {
	if m.setSortOrderFn != nil {
		return m.setSortOrderFn(ctx, propertyID, order)
	}
	return nil
}

type mockTeamStore struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.Team, error)
	getForUpdateFn func(ctx context.Context, id int64) (*model.Team, error)
	createFn       func(ctx context.Context, team *model.Team) error
	updateModeFn   func(ctx context.Context, id int64, mode model.DistributionMode) error
	listByUserFn   func(ctx context.Context, userID int64) ([]model.Team, error)
	lockCalls      int
}

func (m *mockTeamStore) GetByID(ctx context.Context, id int64) (*model.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockTeamStore) GetForUpdate(ctx context.Context, id int64) (*model.Team, error) {
	m.lockCalls++
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *mockTeamStore) Create(ctx context.Context, team *model.Team) error {
	if m.createFn != nil {
		return m.createFn(ctx, team)
	}
	return nil
}

func (m *mockTeamStore) UpdateMode(ctx context.Context, id int64, mode model.DistributionMode) error {
	if m.updateModeFn != nil {
		return m.updateModeFn(ctx, id, mode)
	}
	return nil
}

func (m *mockTeamStore) ListByUser(ctx context.Context, userID int64) ([]model.Team, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

// mockTeamMemberStore keeps members in memory so queue rotation can be asserted.
type mockTeamMemberStore struct {
	members   map[int64]*model.TeamMember
	addFn     func(ctx context.Context, m *model.TeamMember) error
	listErr   error
	positions map[int64]int
}

func newMockTeamMemberStore(members ...model.TeamMember) *mockTeamMemberStore {
	m := &mockTeamMemberStore{members: map[int64]*model.TeamMember{}, positions: map[int64]int{}}
	for i := range members {
		mem := members[i]
		m.members[mem.UserID] = &mem
	}
	return m
}

func (m *mockTeamMemberStore) Add(ctx context.Context, mem *model.TeamMember) error {
	if m.addFn != nil {
		if err := m.addFn(ctx, mem); err != nil {
			return err
		}
	}
	cp := *mem
	m.members[mem.UserID] = &cp
	return nil
}

func (m *mockTeamMemberStore) Get(_ context.Context, _ int64, userID int64) (*model.TeamMember, error) {
	mem, ok := m.members[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *mockTeamMemberStore) Remove(_ context.Context, _ int64, userID int64) error {
	if _, ok := m.members[userID]; !ok {
		return store.ErrNotFound
	}
	delete(m.members, userID)
	return nil
}

func (m *mockTeamMemberStore) List(_ context.Context, _ int64) ([]model.TeamMember, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.TeamMember, 0, len(m.members))
	for _, mem := range m.members {
		out = append(out, *mem)
	}
	return out, nil
}

func (m *mockTeamMemberStore) SetActive(_ context.Context, _ int64, userID int64, active bool) error {
	mem, ok := m.members[userID]
	if !ok {
		return store.ErrNotFound
	}
	mem.Active = active
	return nil
}

func (m *mockTeamMemberStore) SetQueuePosition(_ context.Context, _ int64, userID int64, position int) error {
	mem, ok := m.members[userID]
	if !ok {
		return store.ErrNotFound
	}
	mem.QueuePosition = position
	m.positions[userID] = position
	return nil
}

func (m *mockTeamMemberStore) MaxQueuePosition(_ context.Context, _ int64) (int, error) {
	maxPos := -1
	for _, mem := range m.members {
		if mem.QueuePosition > maxPos {
			maxPos = mem.QueuePosition
		}
	}
	return maxPos, nil
}

type mockLeadStore struct {
	mu             sync.Mutex
	getByIDFn      func(ctx context.Context, id int64) (*model.Lead, error)
	createFn       func(ctx context.Context, lead *model.Lead) error
	updateStageFn  func(ctx context.Context, id int64, from, to model.Stage) error
	assignFn       func(ctx context.Context, id int64, realtorID *int64) error
	listFn         func(ctx context.Context, f model.LeadFilter) ([]model.Lead, error)
	countByStageFn func(ctx context.Context, f model.LeadFilter) (map[model.Stage]int64, error)
	countSinceFn   func(ctx context.Context, since time.Time) (int64, error)
	touchCalls     int
	listFilters    []model.LeadFilter
}

func (m *mockLeadStore) GetByID(ctx context.Context, id int64) (*model.Lead, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockLeadStore) Create(ctx context.Context, lead *model.Lead) error {
	if m.createFn != nil {
		return m.createFn(ctx, lead)
	}
	return nil
}

func (m *mockLeadStore) UpdateStage(ctx context.Context, id int64, from, to model.Stage) error {
	if m.updateStageFn != nil {
		return m.updateStageFn(ctx, id, from, to)
	}
	return nil
}

func (m *mockLeadStore) Assign(ctx context.Context, id int64, realtorID *int64) error {
	if m.assignFn != nil {
		return m.assignFn(ctx, id, realtorID)
	}
	return nil
}

func (m *mockLeadStore) TouchContact(_ context.Context, _ int64, _ time.Time) error {
	m.touchCalls++
	return nil
}

func (m *mockLeadStore) List(ctx context.Context, f model.LeadFilter) ([]model.Lead, error) {
	m.mu.Lock()
	m.listFilters = append(m.listFilters, f)
	m.mu.Unlock()
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, nil
}

func (m *mockLeadStore) CountByStage(ctx context.Context, f model.LeadFilter) (map[model.Stage]int64, error) {
	if m.countByStageFn != nil {
		return m.countByStageFn(ctx, f)
	}
	return map[model.Stage]int64{}, nil
}

func (m *mockLeadStore) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if m.countSinceFn != nil {
		return m.countSinceFn(ctx, since)
	}
	return 0, nil
}

type mockLeadEventStore struct {
	created []model.LeadEvent
	listFn  func(ctx context.Context, leadID int64) ([]model.LeadEvent, error)
}

func (m *mockLeadEventStore) Create(_ context.Context, e *model.LeadEvent) error {
	m.created = append(m.created, *e)
	return nil
}

func (m *mockLeadEventStore) ListByLead(ctx context.Context, leadID int64) ([]model.LeadEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, leadID)
	}
	return m.created, nil
}

type mockLeadMessageStore struct {
	created       []model.LeadClientMessage
	lastInboundFn func(ctx context.Context, leadID int64) (*model.LeadClientMessage, error)
}

func (m *mockLeadMessageStore) Create(_ context.Context, msg *model.LeadClientMessage) error {
	m.created = append(m.created, *msg)
	return nil
}

func (m *mockLeadMessageStore) ListByLead(_ context.Context, _ int64) ([]model.LeadClientMessage, error) {
	return m.created, nil
}

func (m *mockLeadMessageStore) LastInbound(ctx context.Context, leadID int64) (*model.LeadClientMessage, error) {
	if m.lastInboundFn != nil {
		return m.lastInboundFn(ctx, leadID)
	}
	return nil, store.ErrNotFound
}

type mockAssistantStore struct {
	created      []model.AssistantItem
	getByIDFn    func(ctx context.Context, id int64) (*model.AssistantItem, error)
	statusCalls  map[int64]model.AssistantItemStatus
	snoozed      map[int64]time.Time
	closedLeadID int64
	closedType   model.AssistantItemType
}

func newMockAssistantStore() *mockAssistantStore {
	return &mockAssistantStore{
		statusCalls: map[int64]model.AssistantItemStatus{},
		snoozed:     map[int64]time.Time{},
	}
}

func (m *mockAssistantStore) GetByID(ctx context.Context, id int64) (*model.AssistantItem, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockAssistantStore) Create(_ context.Context, item *model.AssistantItem) error {
	m.created = append(m.created, *item)
	return nil
}

func (m *mockAssistantStore) CreateForLead(_ context.Context, item *model.AssistantItem) (bool, error) {
	for _, it := range m.created {
		if it.UserID == item.UserID && it.Type == item.Type &&
			it.LeadID != nil && item.LeadID != nil && *it.LeadID == *item.LeadID {
			return false, nil
		}
	}
	m.created = append(m.created, *item)
	return true, nil
}

func (m *mockAssistantStore) ListOpen(_ context.Context, userID int64, _ time.Time) ([]model.AssistantItem, error) {
	var out []model.AssistantItem
	for _, it := range m.created {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockAssistantStore) UpdateStatus(_ context.Context, id int64, status model.AssistantItemStatus) error {
	m.statusCalls[id] = status
	return nil
}

func (m *mockAssistantStore) Snooze(_ context.Context, id int64, until time.Time) error {
	m.snoozed[id] = until
	return nil
}

func (m *mockAssistantStore) CloseOpenForLead(_ context.Context, leadID int64, t model.AssistantItemType) (int64, error) {
	m.closedLeadID = leadID
	m.closedType = t
	return 1, nil
}

type mockSettingStore struct {
	values   map[string]string
	upserted []model.SystemSetting
}

func newMockSettingStore(kv ...string) *mockSettingStore {
	m := &mockSettingStore{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		m.values[kv[i]] = kv[i+1]
	}
	return m
}

func (m *mockSettingStore) Get(_ context.Context, key string) (*model.SystemSetting, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &model.SystemSetting{Key: key, Value: []byte(v)}, nil
}

func (m *mockSettingStore) List(_ context.Context) ([]model.SystemSetting, error) {
	out := make([]model.SystemSetting, 0, len(m.values))
	for k, v := range m.values {
		out = append(out, model.SystemSetting{Key: k, Value: []byte(v)})
	}
	return out, nil
}

func (m *mockSettingStore) Upsert(_ context.Context, s *model.SystemSetting) error {
	m.upserted = append(m.upserted, *s)
	m.values[s.Key] = string(s.Value)
	return nil
}

type mockClientStore struct {
	clients map[int64]*model.Client
}

func newMockClientStore(clients ...model.Client) *mockClientStore {
	m := &mockClientStore{clients: map[int64]*model.Client{}}
	for i := range clients {
		c := clients[i]
		m.clients[c.ID] = &c
	}
	return m
}

func (m *mockClientStore) GetByID(_ context.Context, id int64) (*model.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockClientStore) Create(_ context.Context, c *model.Client) error {
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *mockClientStore) Update(_ context.Context, c *model.Client) error {
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *mockClientStore) Delete(_ context.Context, id int64) error {
	delete(m.clients, id)
	return nil
}

func (m *mockClientStore) ListByRealtor(_ context.Context, realtorID int64) ([]model.Client, error) {
	var out []model.Client
	for _, c := range m.clients {
		if c.RealtorID == realtorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type mockRecommendationStore struct {
	lists map[int64]*model.RecommendationList
}

func newMockRecommendationStore() *mockRecommendationStore {
	return &mockRecommendationStore{lists: map[int64]*model.RecommendationList{}}
}

func (m *mockRecommendationStore) GetByID(_ context.Context, id int64) (*model.RecommendationList, error) {
	l, ok := m.lists[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *l
	cp.PropertyIDs = append([]int64(nil), l.PropertyIDs...)
	return &cp, nil
}

func (m *mockRecommendationStore) GetByShareToken(_ context.Context, token uuid.UUID) (*model.RecommendationList, error) {
	for _, l := range m.lists {
		if l.ShareToken == token {
			cp := *l
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockRecommendationStore) Create(_ context.Context, list *model.RecommendationList) error {
	cp := *list
	m.lists[list.ID] = &cp
	return nil
}

func (m *mockRecommendationStore) ListByRealtor(_ context.Context, realtorID int64) ([]model.RecommendationList, error) {
	var out []model.RecommendationList
	for _, l := range m.lists {
		if l.RealtorID == realtorID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockRecommendationStore) AddProperty(_ context.Context, listID, propertyID int64) error {
	l, ok := m.lists[listID]
	if !ok {
		return store.ErrNotFound
	}
	for _, pid := range l.PropertyIDs {
		if pid == propertyID {
			return nil
		}
	}
	l.PropertyIDs = append(l.PropertyIDs, propertyID)
	return nil
}

func (m *mockRecommendationStore) RemoveProperty(_ context.Context, listID, propertyID int64) error {
	l, ok := m.lists[listID]
	if !ok {
		return store.ErrNotFound
	}
	for i, pid := range l.PropertyIDs {
		if pid == propertyID {
			l.PropertyIDs = append(l.PropertyIDs[:i], l.PropertyIDs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type mockStoreProvider struct {
	properties      store.PropertyStore
	teams           store.TeamStore
	members         store.TeamMemberStore
	leads           store.LeadStore
	events          store.LeadEventStore
	recommendations store.RecommendationStore
}

func (m *mockStoreProvider) Properties() store.PropertyStore            { return m.properties }
func (m *mockStoreProvider) Teams() store.TeamStore                     { return m.teams }
func (m *mockStoreProvider) TeamMembers() store.TeamMemberStore         { return m.members }
func (m *mockStoreProvider) Leads() store.LeadStore                     { return m.leads }
func (m *mockStoreProvider) LeadEvents() store.LeadEventStore           { return m.events }
func (m *mockStoreProvider) Recommendations() store.RecommendationStore { return m.recommendations }

type mockTxRunner struct {
	provider *mockStoreProvider
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
	calls    int
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	if m.provider == nil {
		return fn(&mockStoreProvider{})
	}
	return fn(m.provider)
}

type mockProducer struct {
	mu       sync.Mutex
	tasks    []queue.Task
	enqueErr error
}

func (m *mockProducer) Enqueue(_ context.Context, task queue.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return m.enqueErr
}

func (m *mockProducer) Close() error { return nil }

type mockAuthenticator struct {
	identity service.Identity
	err      error
}

func (m *mockAuthenticator) AuthorizationURL(state string) (string, error) {
	return "https://auth.example.com/authorize?state=" + state, nil
}

func (m *mockAuthenticator) Authenticate(_ context.Context, _ string) (service.Identity, error) {
	return m.identity, m.err
}

type mockMedia struct {
	uploads   []string
	destroyed []string
	uploadErr error
}

func (m *mockMedia) Upload(_ context.Context, folder string, _ io.Reader) (*media.Asset, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, folder)
	return &media.Asset{PublicID: folder + "/abc", URL: "https://cdn.example.com/" + folder + "/abc.jpg"}, nil
}

func (m *mockMedia) Destroy(_ context.Context, publicID string) error {
	m.destroyed = append(m.destroyed, publicID)
	return nil
}

type published struct {
	channel string
	event   string
	data    any
}

type mockPublisher struct {
	events []published
}

func (m *mockPublisher) Publish(_ context.Context, channel, event string, data any) error {
	m.events = append(m.events, published{channel: channel, event: event, data: data})
	return nil
}

func (m *mockPublisher) Authorize(_ int64, _ string, _ []byte) ([]byte, error) {
	return nil, nil
}

type mockLLM struct {
	reply string
	err   error
	calls int
}

func (m *mockLLM) Chat(_ context.Context, _ llm.Request, result any) (*llm.Usage, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Usage{}, jsonUnmarshal(m.reply, result)
}

func (m *mockLLM) Model() string { return "mock" }
