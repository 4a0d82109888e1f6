package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zillowlike.app/api/internal/assist"
	"zillowlike.app/api/internal/http/middleware"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/places"
	"zillowlike.app/api/internal/service"
)

// Mocks embed the service interface so tests only stub what they exercise.

type mockAuthService struct {
	service.AuthService
	validateFn func(ctx context.Context, token string) (*model.User, error)
	callbackFn func(ctx context.Context, code string) (*model.User, *model.Session, error)
	logoutFn   func(ctx context.Context, token string) error
	purgeFn    func(ctx context.Context) (int64, error)
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (*model.User, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, token)
	}
	return nil, service.ErrSessionExpired
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error) {
	return m.callbackFn(ctx, code)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return m.purgeFn(ctx)
}

type mockUserService struct {
	service.UserService
	listFn       func(ctx context.Context, actor *model.User, role *model.Role, limit, offset int32) ([]model.User, error)
	changeRoleFn func(ctx context.Context, actor *model.User, userID int64, role model.Role) (*model.User, error)
}

func (m *mockUserService) List(ctx context.Context, actor *model.User, role *model.Role, limit, offset int32) ([]model.User, error) {
	return m.listFn(ctx, actor, role, limit, offset)
}

func (m *mockUserService) ChangeRole(ctx context.Context, actor *model.User, userID int64, role model.Role) (*model.User, error) {
	return m.changeRoleFn(ctx, actor, userID, role)
}

type mockPropertyService struct {
	service.PropertyService
	getFn      func(ctx context.Context, actor *model.User, id int64) (*model.Property, error)
	createFn   func(ctx context.Context, actor *model.User, in service.PropertyInput) (*model.Property, error)
	searchFn   func(ctx context.Context, f model.PropertyFilter) ([]model.Property, error)
	statusFn   func(ctx context.Context, actor *model.User, id int64, status model.PropertyStatus) (*model.Property, error)
	uploadFn   func(ctx context.Context, actor *model.User, propertyID int64, file io.Reader) (*model.Image, error)
	reorderFn  func(ctx context.Context, actor *model.User, propertyID int64, imageIDs []int64) ([]model.Image, error)
	describeFn func(ctx context.Context, actor *model.User, id int64, highlights []string) (assist.Description, error)
}

func (m *mockPropertyService) Get(ctx context.Context, actor *model.User, id int64) (*model.Property, error) {
	return m.getFn(ctx, actor, id)
}

func (m *mockPropertyService) Create(ctx context.Context, actor *model.User, in service.PropertyInput) (*model.Property, error) {
	return m.createFn(ctx, actor, in)
}

func (m *mockPropertyService) Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, error) {
	return m.searchFn(ctx, f)
}

func (m *mockPropertyService) ChangeStatus(ctx context.Context, actor *model.User, id int64, status model.PropertyStatus) (*model.Property, error) {
	return m.statusFn(ctx, actor, id, status)
}

func (m *mockPropertyService) UploadImage(ctx context.Context, actor *model.User, propertyID int64, file io.Reader) (*model.Image, error) {
	return m.uploadFn(ctx, actor, propertyID, file)
}

func (m *mockPropertyService) ReorderImages(ctx context.Context, actor *model.User, propertyID int64, imageIDs []int64) ([]model.Image, error) {
	return m.reorderFn(ctx, actor, propertyID, imageIDs)
}

func (m *mockPropertyService) GenerateDescription(ctx context.Context, actor *model.User, id int64, highlights []string) (assist.Description, error) {
	return m.describeFn(ctx, actor, id, highlights)
}

type mockLeadService struct {
	service.LeadService
	createFn   func(ctx context.Context, contact *model.User, in service.LeadInput) (*model.Lead, error)
	stageFn    func(ctx context.Context, actor *model.User, leadID int64, to model.Stage, note string) (*model.Lead, error)
	boardFn    func(ctx context.Context, actor *model.User, teamID *int64) ([]service.BoardColumn, error)
	whatsappFn func(ctx context.Context, actor *model.User, leadID int64, text string) (string, error)
}

func (m *mockLeadService) Create(ctx context.Context, contact *model.User, in service.LeadInput) (*model.Lead, error) {
	return m.createFn(ctx, contact, in)
}

func (m *mockLeadService) ChangeStage(ctx context.Context, actor *model.User, leadID int64, to model.Stage, note string) (*model.Lead, error) {
	return m.stageFn(ctx, actor, leadID, to, note)
}

func (m *mockLeadService) Board(ctx context.Context, actor *model.User, teamID *int64) ([]service.BoardColumn, error) {
	return m.boardFn(ctx, actor, teamID)
}

func (m *mockLeadService) WhatsAppLink(ctx context.Context, actor *model.User, leadID int64, text string) (string, error) {
	return m.whatsappFn(ctx, actor, leadID, text)
}

type mockDraftService struct {
	draftFn func(ctx context.Context, actor *model.User, leadID int64, text string) (*service.DraftResult, error)
}

func (m *mockDraftService) Draft(ctx context.Context, actor *model.User, leadID int64, text string) (*service.DraftResult, error) {
	return m.draftFn(ctx, actor, leadID, text)
}

type mockClientService struct {
	service.ClientService
	createListFn func(ctx context.Context, actor *model.User, title string, clientID *int64, propertyIDs []int64) (*model.RecommendationList, error)
	sharedFn     func(ctx context.Context, token uuid.UUID) (*service.SharedList, error)
}

func (m *mockClientService) CreateList(ctx context.Context, actor *model.User, title string, clientID *int64, propertyIDs []int64) (*model.RecommendationList, error) {
	return m.createListFn(ctx, actor, title, clientID, propertyIDs)
}

func (m *mockClientService) Shared(ctx context.Context, token uuid.UUID) (*service.SharedList, error) {
	return m.sharedFn(ctx, token)
}

type mockAssistantService struct {
	service.AssistantService
	snoozeFn func(ctx context.Context, actor *model.User, itemID int64, until time.Time) error
}

func (m *mockAssistantService) Snooze(ctx context.Context, actor *model.User, itemID int64, until time.Time) error {
	return m.snoozeFn(ctx, actor, itemID, until)
}

type mockSettingsService struct {
	service.SettingsService
	putFn func(ctx context.Context, actor *model.User, key string, value json.RawMessage) (*model.SystemSetting, error)
}

func (m *mockSettingsService) Put(ctx context.Context, actor *model.User, key string, value json.RawMessage) (*model.SystemSetting, error) {
	return m.putFn(ctx, actor, key, value)
}

type mockPlacesFinder struct {
	nearbyFn func(ctx context.Context, q places.Query) (*places.Result, error)
}

func (m *mockPlacesFinder) Nearby(ctx context.Context, q places.Query) (*places.Result, error) {
	return m.nearbyFn(ctx, q)
}

type countingObserver struct {
	sources map[string]int
}

func (o *countingObserver) PlacesLookup(source string) {
	if o.sources == nil {
		o.sources = map[string]int{}
	}
	o.sources[source]++
}

const testSessionToken = "tok-3KX7Q2ZV"

// sessionAuth authenticates every request carrying X-Session-ID as user.
func sessionAuth(user *model.User) gin.HandlerFunc {
	return middleware.RequireAuth(&mockAuthService{
		validateFn: func(context.Context, string) (*model.User, error) { return user, nil },
	}, false)
}

func doJSON(router *gin.Engine, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set(middleware.SessionIDHeader, testSessionToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

type mockTeamService struct {
	service.TeamService
	createFn    func(ctx context.Context, actor *model.User, name string, mode model.DistributionMode) (*service.TeamDetail, error)
	addMemberFn func(ctx context.Context, actor *model.User, teamID int64, email string) (*model.TeamMember, error)
	setActiveFn func(ctx context.Context, actor *model.User, teamID, userID int64, active bool) error
	reorderFn   func(ctx context.Context, actor *model.User, teamID int64, userIDs []int64) ([]model.TeamMember, error)
}

func (m *mockTeamService) Create(ctx context.Context, actor *model.User, name string, mode model.DistributionMode) (*service.TeamDetail, error) {
	return m.createFn(ctx, actor, name, mode)
}

func (m *mockTeamService) AddMember(ctx context.Context, actor *model.User, teamID int64, email string) (*model.TeamMember, error) {
	return m.addMemberFn(ctx, actor, teamID, email)
}

func (m *mockTeamService) SetMemberActive(ctx context.Context, actor *model.User, teamID, userID int64, active bool) error {
	return m.setActiveFn(ctx, actor, teamID, userID, active)
}

func (m *mockTeamService) ReorderQueue(ctx context.Context, actor *model.User, teamID int64, userIDs []int64) ([]model.TeamMember, error) {
	return m.reorderFn(ctx, actor, teamID, userIDs)
}
