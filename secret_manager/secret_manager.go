package secret_manager

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const keyringService = "clickupai"

// ErrSecretNotFound is wrapped by every GetSecret failure caused by a secret
// simply not being configured.
var ErrSecretNotFound = errors.New("secret not found")

type SecretManager interface {
	GetSecret(secretName string) (string, error)
	SetSecret(secretName string, secret string) error
	DeleteSecret(secretName string) error
	GetType() SecretManagerType
}

type SecretManagerType string

const (
	EnvSecretManagerType       SecretManagerType = "env"
	MockSecretManagerType      SecretManagerType = "mock"
	KeyringSecretManagerType   SecretManagerType = "keyring"
	CompositeSecretManagerType SecretManagerType = "composite"
)

// EnvSecretManager reads CLICKUPAI_<name>, then the bare <name>, so that the
// conventional GEMINI_API_KEY works without a prefix.
type EnvSecretManager struct{}

func (e EnvSecretManager) SetSecret(secretName string, secret string) error {
	return fmt.Errorf("cannot set secrets in environment secret manager - secrets must be set as environment variables")
}

func (e EnvSecretManager) GetSecret(secretName string) (string, error) {
	for _, name := range []string{"CLICKUPAI_" + secretName, secretName} {
		if secret := strings.TrimSpace(os.Getenv(name)); secret != "" {
			return secret, nil
		}
	}
	return "", fmt.Errorf("%w: %s not set in environment", ErrSecretNotFound, secretName)
}

func (e EnvSecretManager) DeleteSecret(secretName string) error {
	return fmt.Errorf("cannot delete secrets in environment secret manager - secrets must be managed via environment variables")
}

func (e EnvSecretManager) GetType() SecretManagerType {
	return EnvSecretManagerType
}

type KeyringSecretManager struct{}

func (k KeyringSecretManager) SetSecret(secretName string, secret string) error {
	err := keyring.Set(keyringService, secretName, secret)
	if err != nil {
		return fmt.Errorf("error setting %s in keyring: %w", secretName, err)
	}
	return nil
}

func (k KeyringSecretManager) GetSecret(secretName string) (string, error) {
	secret, err := keyring.Get(keyringService, secretName)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s not in keyring", ErrSecretNotFound, secretName)
	}
	if err != nil {
		return "", fmt.Errorf("error retrieving %s from keyring: %w", secretName, err)
	}
	return secret, nil
}

func (k KeyringSecretManager) DeleteSecret(secretName string) error {
	err := keyring.Delete(keyringService, secretName)
	if err != nil {
		return fmt.Errorf("error deleting %s from keyring: %w", secretName, err)
	}
	return nil
}

func (k KeyringSecretManager) GetType() SecretManagerType {
	return KeyringSecretManagerType
}

// MockSecretManager holds secrets in memory.
type MockSecretManager struct {
	secrets map[string]string
}

func NewMockSecretManager(secrets map[string]string) *MockSecretManager {
	return &MockSecretManager{secrets: secrets}
}

func (m MockSecretManager) GetSecret(secretName string) (string, error) {
	if secret, ok := m.secrets[secretName]; ok {
		return secret, nil
	}
	return "", fmt.Errorf("%w: %s", ErrSecretNotFound, secretName)
}

func (m *MockSecretManager) SetSecret(secretName string, secret string) error {
	if m.secrets == nil {
		m.secrets = make(map[string]string)
	}
	m.secrets[secretName] = secret
	return nil
}

func (m *MockSecretManager) DeleteSecret(secretName string) error {
	if m.secrets != nil {
		delete(m.secrets, secretName)
	}
	return nil
}

func (m MockSecretManager) GetType() SecretManagerType {
	return MockSecretManagerType
}

// CompositeSecretManager returns the first secret found across its managers,
// in order. Writes go to the first manager that accepts them.
type CompositeSecretManager struct {
	Managers []SecretManager
}

func (c CompositeSecretManager) GetSecret(secretName string) (string, error) {
	var errs []error
	for _, m := range c.Managers {
		secret, err := m.GetSecret(secretName)
		if err == nil {
			return secret, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, secretName)
	}
	return "", errors.Join(errs...)
}

func (c CompositeSecretManager) SetSecret(secretName string, secret string) error {
	var errs []error
	for _, m := range c.Managers {
		err := m.SetSecret(secretName, secret)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c CompositeSecretManager) DeleteSecret(secretName string) error {
	var errs []error
	for _, m := range c.Managers {
		err := m.DeleteSecret(secretName)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c CompositeSecretManager) GetType() SecretManagerType {
	return CompositeSecretManagerType
}

// GetSecretManager returns a SecretManager instance of the specified type
func GetSecretManager(smType SecretManagerType) SecretManager {
	switch smType {
	case KeyringSecretManagerType:
		return &KeyringSecretManager{}
	case EnvSecretManagerType:
		return &EnvSecretManager{}
	case MockSecretManagerType:
		return &MockSecretManager{}
	default:
		return DefaultSecretManager()
	}
}

// DefaultSecretManager checks the environment first, then the OS keyring.
func DefaultSecretManager() SecretManager {
	return CompositeSecretManager{Managers: []SecretManager{EnvSecretManager{}, KeyringSecretManager{}}}
}
