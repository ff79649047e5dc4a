package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbpr/internal/application"
	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

func TestResolveCredentials_EnvironmentWins(t *testing.T) {
	store := newFakeStore()
	store.values["username"] = "stored-user"
	store.values["app_password"] = "stored-pass"

	env := model.Credentials{Username: "env-user", AppPassword: "env-pass"}

	creds, source, err := application.ResolveCredentials(context.Background(), env, store)

	require.NoError(t, err)
	assert.Equal(t, application.CredentialSourceEnv, source)
	assert.Equal(t, "env-user", creds.Username)
}

func TestResolveCredentials_PartialEnvFallsThroughToStore(t *testing.T) {
	store := newFakeStore()
	store.values["username"] = "stored-user"
	store.values["app_password"] = "stored-pass"

	// Username alone is not a usable pair.
	env := model.Credentials{Username: "env-user"}

	creds, source, err := application.ResolveCredentials(context.Background(), env, store)

	require.NoError(t, err)
	assert.Equal(t, application.CredentialSourceStored, source)
	assert.Equal(t, "stored-user", creds.Username)
	assert.Equal(t, "stored-pass", creds.AppPassword)
}

func TestResolveCredentials_NoneAvailable(t *testing.T) {
	creds, source, err := application.ResolveCredentials(context.Background(), model.Credentials{}, newFakeStore())

	require.NoError(t, err)
	assert.Equal(t, application.CredentialSourceNone, source)
	assert.Empty(t, creds.Username)
}

func TestResolveCredentials_PartialStoreIsNone(t *testing.T) {
	store := newFakeStore()
	store.values["username"] = "stored-user"

	_, source, err := application.ResolveCredentials(context.Background(), model.Credentials{}, store)

	require.NoError(t, err)
	assert.Equal(t, application.CredentialSourceNone, source)
}

func TestResolveCredentials_MissingEncryptionKeyIsNotAnError(t *testing.T) {
	store := newFakeStore()
	store.getErr = driven.ErrEncryptionKeyNotSet

	_, source, err := application.ResolveCredentials(context.Background(), model.Credentials{}, store)

	require.NoError(t, err)
	assert.Equal(t, application.CredentialSourceNone, source)
}

func TestResolveCredentials_StoreFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("disk on fire")

	_, _, err := application.ResolveCredentials(context.Background(), model.Credentials{}, store)

	require.Error(t, err)
}
