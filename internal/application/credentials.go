package application

import (
	"context"
	"errors"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// CredentialSource reports where a resolved credential pair came from.
type CredentialSource string

const (
	CredentialSourceEnv    CredentialSource = "environment"
	CredentialSourceStored CredentialSource = "stored"
	CredentialSourceNone   CredentialSource = "none"
)

// ResolveCredentials picks the credential pair for this invocation. The
// environment override wins; otherwise the encrypted store is consulted. A
// store disabled for lack of an encryption key counts as empty, not as an
// error. Source is CredentialSourceNone when neither yields a full pair.
func ResolveCredentials(ctx context.Context, env model.Credentials, store driven.CredentialStore) (model.Credentials, CredentialSource, error) {
	if env.Username != "" && env.AppPassword != "" {
		return env, CredentialSourceEnv, nil
	}

	username, err := store.Get(ctx, "username")
	if err != nil {
		if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
			return model.Credentials{}, CredentialSourceNone, nil
		}
		return model.Credentials{}, CredentialSourceNone, err
	}
	password, err := store.Get(ctx, "app_password")
	if err != nil {
		if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
			return model.Credentials{}, CredentialSourceNone, nil
		}
		return model.Credentials{}, CredentialSourceNone, err
	}

	if username == "" || password == "" {
		return model.Credentials{}, CredentialSourceNone, nil
	}
	return model.Credentials{Username: username, AppPassword: password}, CredentialSourceStored, nil
}
