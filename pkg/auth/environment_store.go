package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// This keeps plain TATSU_API_KEY workflows (CI, containers) working
// without a keychain.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(profile *Profile) error {
	return ErrStoreUnavailable
}

// Retrieve gets the API key from the environment
func (e *EnvironmentStore) Retrieve(name string) (*Profile, error) {
	key := os.Getenv("TATSU_API_KEY")
	if key == "" {
		return nil, ErrCredentialsNotFound
	}

	// The environment carries no profile name, so we use "default" or the provided one
	if name == "" {
		name = "default"
	}

	return &Profile{
		Name:         name,
		Key:          key,
		LastModified: time.Now(),
	}, nil
}

// List returns a single profile if the environment key is set
func (e *EnvironmentStore) List() ([]*Profile, error) {
	profile, err := e.Retrieve("")
	if err != nil {
		return []*Profile{}, nil
	}
	return []*Profile{profile}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment key is set
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("TATSU_API_KEY") != ""
}
