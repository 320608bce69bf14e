// Package auth persists session tokens per API host.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

var (
	lmHostFile = "hosts.json"

	keyringUser = "lazymemo-user"

	ErrTokenNotFound = errors.New("token not found")
)

type TokenStore int

const (
	TokenStoreUnknown TokenStore = iota
	TokenStoreKeyring
	TokenStoreFile
)

func (s TokenStore) String() string {
	switch s {
	case TokenStoreKeyring:
		return "keyring"
	case TokenStoreFile:
		return "file"
	default:
		return "unknown"
	}
}

// GetToken looks up the session token for apiHost in the keyring, then in
// the hosts file.
func GetToken(apiHost string) (string, TokenStore, error) {
	token, err := getTokenFromKeyring(keyringService(apiHost), keyringUser)
	if err == nil {
		return token, TokenStoreKeyring, nil
	}

	token, err = getTokenFromFile(apiHost)
	if err == nil {
		return token, TokenStoreFile, nil
	}

	if errors.Is(err, ErrTokenNotFound) {
		return "", TokenStoreUnknown, ErrTokenNotFound
	}

	return "", TokenStoreUnknown, fmt.Errorf("get token from file: %w", err)
}

func getTokenFromKeyring(service, username string) (string, error) {
	token, err := keyring.Get(service, username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}

		return "", fmt.Errorf("get token from keyring: %w", err)
	}

	if token == "" {
		return "", ErrTokenNotFound
	}

	return token, nil
}

func getTokenFromFile(host string) (string, error) {
	tokens, err := readHostFile()
	if err != nil {
		return "", err
	}

	token, ok := tokens[host]
	if !ok || token == "" {
		return "", ErrTokenNotFound
	}

	return token, nil
}

func SetToken(apiHost, token string) (TokenStore, error) {
	if token == "" {
		return TokenStoreUnknown, fmt.Errorf("token is empty")
	}

	keyringErr := setTokenToKeyring(keyringService(apiHost), keyringUser, token)
	if keyringErr == nil {
		return TokenStoreKeyring, nil
	}

	fileErr := updateHostFile(func(tokens map[string]string) {
		tokens[apiHost] = token
	})
	if fileErr == nil {
		return TokenStoreFile, nil
	}

	return TokenStoreUnknown, fmt.Errorf("set token to keyring: %v; set token to file: %w", keyringErr, fileErr)
}

func setTokenToKeyring(service, username, token string) error {
	if err := keyring.Set(service, username, token); err != nil {
		return fmt.Errorf("set token to keyring: %w", err)
	}

	return nil
}

// DeleteToken removes the token for apiHost from every store. A token
// that is already gone is not an error.
func DeleteToken(apiHost string) error {
	var errs []error

	if err := keyring.Delete(keyringService(apiHost), keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		errs = append(errs, fmt.Errorf("delete token from keyring: %w", err))
	}

	if _, err := os.Stat(filepath.Join(configDir(), lmHostFile)); err == nil {
		err := updateHostFile(func(tokens map[string]string) {
			delete(tokens, apiHost)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("delete token from file: %w", err))
		}
	}

	// the keyring is often unavailable on headless hosts; only the file
	// failing as well is worth reporting
	if len(errs) == 2 {
		return errors.Join(errs...)
	}

	return nil
}

func readHostFile() (map[string]string, error) {
	dir := configDir()

	f, err := os.OpenInRoot(dir, lmHostFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrTokenNotFound
		}

		return nil, fmt.Errorf("open file (%s/%s): %w", dir, lmHostFile, err)
	}
	defer func() { _ = f.Close() }()

	var tokens map[string]string
	if err := json.NewDecoder(f).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decode file (%s/%s) to json: %w", dir, lmHostFile, err)
	}

	return tokens, nil
}

func updateHostFile(update func(tokens map[string]string)) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("open config dir: %w", err)
	}
	defer func() { _ = root.Close() }()

	tokens := map[string]string{}
	if data, err := root.ReadFile(lmHostFile); err == nil {
		if err := json.Unmarshal(data, &tokens); err != nil {
			return fmt.Errorf("decode file (%s) to json: %w", lmHostFile, err)
		}
	} else {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read file (%s): %w", lmHostFile, err)
		}
	}

	update(tokens)

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens to json: %w", err)
	}

	if err := root.WriteFile(lmHostFile, data, 0600); err != nil {
		return fmt.Errorf("write file (%s): %w", lmHostFile, err)
	}

	return nil
}

func configDir() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "lazymemo")
}

func keyringService(apiHost string) string {
	return fmt.Sprintf("lazymemo-%s", apiHost)
}
