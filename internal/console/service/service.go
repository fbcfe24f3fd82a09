package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vova4o/labconsole/internal/console/models"
	"github.com/vova4o/labconsole/package/logger"
)

// ThemeKey is the preference key of the manual theme override
const ThemeKey = "app-theme"

// Variant is a light or dark color scheme
type Variant string

// Variants
const (
	Light Variant = "light"
	Dark  Variant = "dark"
)

// ParseVariant maps stored text to a Variant, ok is false for unknown values
func ParseVariant(s string) (Variant, bool) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Opposite returns the other variant
func (v Variant) Opposite() Variant {
	if v == Dark {
		return Light
	}
	return Dark
}

// Storager interface
type Storager interface {
	GetPreference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error
	DeletePreference(ctx context.Context, key string) error
}

// TokenReader reads the expiry of a session token
type TokenReader interface {
	Expired(token string, now time.Time) (bool, error)
	ExpiresAt(token string) (time.Time, error)
}

// Service is the application state container shared by every screen
type Service struct {
	stor   Storager
	tokens TokenReader
	logger *logger.Logger
	now    func() time.Time

	mu        sync.RWMutex
	env       Variant
	override  Variant
	session   *models.Session
	listeners []func(Variant)
}

// NewService creates new service instance
func NewService(stor Storager, tokens TokenReader, logger *logger.Logger) *Service {
	return &Service{
		stor:   stor,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
		env:    Light,
	}
}

// InitTheme derives the theme from the environment unless a manual
// override was stored by an earlier run
func (s *Service) InitTheme(ctx context.Context, env Variant) (Variant, error) {
	s.logger.Info("Initializing theme")

	stored, ok, err := s.stor.GetPreference(ctx, ThemeKey)
	if err != nil {
		s.logger.Error("Failed to read theme preference: " + err.Error())
	}

	s.mu.Lock()
	s.env = env
	s.override = ""
	if ok {
		if v, valid := ParseVariant(stored); valid {
			s.override = v
		} else {
			s.logger.Warning("Ignoring unknown stored theme " + stored)
		}
	}
	current := s.currentLocked()
	s.mu.Unlock()

	s.notify(current)
	return current, err
}

// EnvironmentChanged records a new environment color scheme. It has no
// visible effect while a manual override exists.
func (s *Service) EnvironmentChanged(env Variant) {
	s.mu.Lock()
	before := s.currentLocked()
	s.env = env
	after := s.currentLocked()
	s.mu.Unlock()

	if before != after {
		s.logger.Debug("Theme follows environment: " + string(after))
		s.notify(after)
	}
}

// ToggleTheme flips the current theme and persists it as the manual override
func (s *Service) ToggleTheme(ctx context.Context) (Variant, error) {
	s.mu.Lock()
	next := s.currentLocked().Opposite()
	s.override = next
	s.mu.Unlock()

	s.logger.Info("Theme toggled to " + string(next))
	s.notify(next)

	if err := s.stor.SetPreference(ctx, ThemeKey, string(next)); err != nil {
		s.logger.Error("Failed to store theme preference: " + err.Error())
		return next, err
	}
	return next, nil
}

// ResetTheme drops the manual override and follows env again
func (s *Service) ResetTheme(ctx context.Context, env Variant) (Variant, error) {
	s.mu.Lock()
	s.override = ""
	s.env = env
	current := s.currentLocked()
	s.mu.Unlock()

	s.logger.Info("Theme reset to environment")
	s.notify(current)

	if err := s.stor.DeletePreference(ctx, ThemeKey); err != nil {
		s.logger.Error("Failed to delete theme preference: " + err.Error())
		return current, err
	}
	return current, nil
}

// Theme returns the effective theme
func (s *Service) Theme() Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

// ManualOverride reports whether the user picked the theme by hand
func (s *Service) ManualOverride() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.override != ""
}

// OnThemeChange registers a listener called with every effective theme change
func (s *Service) OnThemeChange(fn func(Variant)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Service) currentLocked() Variant {
	if s.override != "" {
		return s.override
	}
	if s.env == "" {
		return Light
	}
	return s.env
}

func (s *Service) notify(v Variant) {
	s.mu.RLock()
	listeners := append([]func(Variant){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(v)
	}
}
