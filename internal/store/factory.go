package store

import (
	"zillowlike.app/api/core/db"
)

// Stores hands out store implementations bound to one connection or transaction.
type Stores struct {
	db db.DBTX
}

func NewStores(conn db.DBTX) *Stores {
	return &Stores{db: conn}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.db)
}

func (s *Stores) Properties() PropertyStore {
	return newPropertyStore(s.db)
}

func (s *Stores) Images() ImageStore {
	return newImageStore(s.db)
}

func (s *Stores) Teams() TeamStore {
	return newTeamStore(s.db)
}

func (s *Stores) TeamMembers() TeamMemberStore {
	return newTeamMemberStore(s.db)
}

func (s *Stores) Leads() LeadStore {
	return newLeadStore(s.db)
}

func (s *Stores) LeadEvents() LeadEventStore {
	return newLeadEventStore(s.db)
}

func (s *Stores) LeadMessages() LeadMessageStore {
	return newLeadMessageStore(s.db)
}

func (s *Stores) Clients() ClientStore {
	return newClientStore(s.db)
}

func (s *Stores) Recommendations() RecommendationStore {
	return newRecommendationStore(s.db)
}

func (s *Stores) Assistant() AssistantStore {
	return newAssistantStore(s.db)
}

func (s *Stores) Settings() SettingStore {
	return newSettingStore(s.db)
}
