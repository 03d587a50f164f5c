package inmem

import (
	"fmt"
	"strings"
	"time"

	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/persistence"
	"github.com/patrickmn/go-cache"
)

var _ persistence.MetadataStorage = new(inmemStorage)
var _ persistence.SessionStorage = new(inmemStorage)

// inmemStorage backs both metadata and session storage for single-node
// deployments and tests. Sessions expire after sessionTTL of inactivity,
// definitions never expire.
type inmemStorage struct {
	definitions *cache.Cache
	sessions    *cache.Cache
}

func NewInmemStorage(sessionTTL time.Duration) *inmemStorage {
	return &inmemStorage{
		definitions: cache.New(cache.NoExpiration, cache.NoExpiration),
		sessions:    cache.New(sessionTTL, 2*sessionTTL),
	}
}

func sessionKey(wizard string, sessionId string) string {
	return fmt.Sprintf("%s:%s", wizard, sessionId)
}

func (s *inmemStorage) SaveWizard(wz model.Wizard) error {
	s.definitions.Set(wz.Name, wz, cache.NoExpiration)
	return nil
}

func (s *inmemStorage) DeleteWizard(name string) error {
	s.definitions.Delete(name)
	return nil
}

func (s *inmemStorage) GetWizard(name string) (*model.Wizard, error) {
	value, ok := s.definitions.Get(name)
	if !ok {
		return nil, persistence.NotFoundError{Kind: "wizard", Name: name}
	}
	wz := value.(model.Wizard)
	return &wz, nil
}

func (s *inmemStorage) ListWizards() ([]string, error) {
	items := s.definitions.Items()
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	return names, nil
}

func (s *inmemStorage) SaveSessionContext(wizard string, sessionId string, sessCtx *model.SessionContext) error {
	copied := *sessCtx
	s.sessions.SetDefault(sessionKey(wizard, sessionId), &copied)
	return nil
}

func (s *inmemStorage) GetSessionContext(wizard string, sessionId string) (*model.SessionContext, error) {
	value, ok := s.sessions.Get(sessionKey(wizard, sessionId))
	if !ok {
		return nil, persistence.NotFoundError{Kind: "session", Name: sessionId}
	}
	copied := *(value.(*model.SessionContext))
	return &copied, nil
}

func (s *inmemStorage) DeleteSessionContext(wizard string, sessionId string) error {
	s.sessions.Delete(sessionKey(wizard, sessionId))
	return nil
}

func (s *inmemStorage) SessionCount(wizard string) int {
	count := 0
	prefix := wizard + ":"
	for key := range s.sessions.Items() {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	return count
}
