package service

import (
	"zillowlike.app/api/internal/assist"
	"zillowlike.app/api/internal/media"
	"zillowlike.app/api/internal/queue"
	"zillowlike.app/api/internal/realtime"
	"zillowlike.app/api/internal/store"
)

// Deps are the adapters services need beyond the stores.
type Deps struct {
	Authenticator      Authenticator
	Producer           queue.Producer
	Media              media.Store
	Publisher          realtime.Publisher
	Writer             *assist.Assistant
	DefaultCountryCode string
}

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	deps     Deps
}

func NewServices(stores *store.Stores, txRunner TxRunner, deps Deps) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		deps:     deps,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions(), s.deps.Authenticator)
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users(), s.stores.Sessions())
}

func (s *Services) Properties() PropertyService {
	return NewPropertyService(
		s.stores.Properties(),
		s.stores.Images(),
		s.stores.TeamMembers(),
		s.stores.Settings(),
		s.deps.Media,
		s.deps.Writer,
	)
}

func (s *Services) Teams() TeamService {
	return NewTeamService(s.stores.Teams(), s.stores.TeamMembers(), s.stores.Users(), s.txRunner)
}

func (s *Services) Leads() LeadService {
	return NewLeadService(
		s.stores.Leads(),
		s.stores.LeadEvents(),
		s.stores.LeadMessages(),
		s.stores.Properties(),
		s.stores.Teams(),
		s.stores.TeamMembers(),
		s.txRunner,
		s.deps.Producer,
		s.deps.DefaultCountryCode,
	)
}

func (s *Services) Drafts() DraftService {
	return NewDraftService(s.Leads(), s.stores.LeadMessages(), s.stores.Properties(), s.stores.Settings(), s.deps.Writer)
}

func (s *Services) Assistant() AssistantService {
	return NewAssistantService(
		s.stores.Assistant(),
		s.stores.Leads(),
		s.stores.Teams(),
		s.stores.Settings(),
		s.deps.Publisher,
	)
}

func (s *Services) Clients() ClientService {
	return NewClientService(
		s.stores.Clients(),
		s.stores.Recommendations(),
		s.stores.Properties(),
		s.stores.Images(),
		s.stores.Users(),
		s.txRunner,
	)
}

func (s *Services) Settings() SettingsService {
	return NewSettingsService(s.stores.Settings(), s.stores.Users(), s.stores.Properties(), s.stores.Leads())
}
