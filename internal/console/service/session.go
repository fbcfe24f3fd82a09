package service

import (
	"strings"

	"github.com/vova4o/labconsole/internal/console/models"
)

var roleRoutes = map[models.Role][]models.Route{
	models.RoleDoctor: {
		models.RouteUsers,
		models.RouteLabTests,
		models.RouteUnions,
		models.RouteAds,
		models.RouteNotifications,
		models.RouteAllLabTests,
	},
	models.RoleAssistant: {
		models.RouteUsers,
		models.RouteLabTests,
		models.RouteAllLabTests,
	},
}

// StartSession stores the signed in user for the lifetime of the process
func (s *Service) StartSession(user models.User, role models.Role) models.Session {
	session := models.Session{
		User:      user,
		Role:      role,
		StartedAt: s.now(),
	}

	if user.Token != "" && s.tokens != nil {
		exp, err := s.tokens.ExpiresAt(user.Token)
		if err == nil {
			session.ExpiresAt = exp
		} else {
			s.logger.Debug("Session token carries no readable expiry: " + err.Error())
		}
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	s.logger.Info("Session started for " + user.DisplayName() + " as " + string(role))
	return session
}

// EndSession forgets the signed in user
func (s *Service) EndSession() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	s.logger.Info("Session ended")
}

// Session returns the active session. An expired session is dropped.
func (s *Service) Session() (models.Session, bool) {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()

	if session == nil {
		return models.Session{}, false
	}
	if session.Expired(s.now()) {
		s.logger.Warning("Session token expired")
		s.EndSession()
		return models.Session{}, false
	}
	return *session, true
}

// AllowedRoutes lists the application routes the role may open
func AllowedRoutes(role models.Role) []models.Route {
	return append([]models.Route(nil), roleRoutes[role]...)
}

// Resolve maps a requested route to the route that should render
func (s *Service) Resolve(route models.Route) models.Route {
	path := models.Route(strings.TrimSuffix(string(route), "/"))
	if path == "" {
		path = models.RouteWelcome
	}

	switch path {
	case models.RouteWelcome, models.RouteLogin:
		return path
	}

	if !strings.HasPrefix(string(path), string(models.RouteApp)) {
		return models.RouteWelcome
	}

	session, ok := s.Session()
	if !ok {
		return models.RouteWelcome
	}

	if path == models.RouteApp {
		return models.RouteUsers
	}

	for _, allowed := range roleRoutes[session.Role] {
		if allowed == path {
			return path
		}
	}
	return models.RouteWelcome
}
