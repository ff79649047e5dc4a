package application

import (
	"context"
	"fmt"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// ClientFactory builds an API client for a credential pair. AuthService uses
// it to validate candidate credentials before they are stored.
type ClientFactory func(model.Credentials) driven.BitbucketClient

// AuthService orchestrates credential setup, inspection, and removal.
type AuthService struct {
	store   driven.CredentialStore
	env     model.Credentials
	factory ClientFactory
}

func NewAuthService(store driven.CredentialStore, env model.Credentials, factory ClientFactory) *AuthService {
	return &AuthService{store: store, env: env, factory: factory}
}

// Login validates the given pair against GET /user and stores it encrypted.
func (s *AuthService) Login(ctx context.Context, username, appPassword string) (model.User, error) {
	if err := requireText("username", username); err != nil {
		return model.User{}, err
	}
	if err := requireText("app password", appPassword); err != nil {
		return model.User{}, err
	}

	creds := model.Credentials{Username: username, AppPassword: appPassword}
	user, err := s.factory(creds).CurrentUser(ctx)
	if err != nil {
		return model.User{}, err
	}

	if err := s.store.Set(ctx, "username", username); err != nil {
		return model.User{}, fmt.Errorf("storing username: %w", err)
	}
	if err := s.store.Set(ctx, "app_password", appPassword); err != nil {
		return model.User{}, fmt.Errorf("storing app password: %w", err)
	}
	return user, nil
}

// Status resolves the active credential pair and validates it against the
// API, reporting where the pair came from.
func (s *AuthService) Status(ctx context.Context) (model.User, CredentialSource, error) {
	creds, source, err := ResolveCredentials(ctx, s.env, s.store)
	if err != nil {
		return model.User{}, source, err
	}
	if source == CredentialSourceNone {
		return model.User{}, source, driven.ErrAuth
	}

	user, err := s.factory(creds).CurrentUser(ctx)
	if err != nil {
		return model.User{}, source, err
	}
	return user, source, nil
}

// Logout removes stored credentials. Environment credentials are untouched;
// the caller's shell owns those.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, "username"); err != nil {
		return fmt.Errorf("removing username: %w", err)
	}
	if err := s.store.Delete(ctx, "app_password"); err != nil {
		return fmt.Errorf("removing app password: %w", err)
	}
	return nil
}
