package shopify

// Session carries the credentials for one shop's Admin API access.
type Session struct {
	Shop        string
	AccessToken string
}

// SessionStore resolves credentials per shop domain. A nil result means the
// shop has no usable session and orders stay local-only.
type SessionStore interface {
	GetSessionFor(shopDomain string) (*Session, bool)
}

// StaticSessionStore holds tokens loaded from the environment. Offline
// tokens per shop land here at startup.
type StaticSessionStore struct {
	sessions map[string]Session
}

func NewStaticSessionStore() *StaticSessionStore {
	return &StaticSessionStore{sessions: make(map[string]Session)}
}

func (s *StaticSessionStore) Add(shop, accessToken string) {
	if shop == "" || accessToken == "" {
		return
	}
	s.sessions[shop] = Session{Shop: shop, AccessToken: accessToken}
}

func (s *StaticSessionStore) GetSessionFor(shopDomain string) (*Session, bool) {
	sess, ok := s.sessions[shopDomain]
	if !ok {
		return nil, false
	}
	return &sess, true
}
