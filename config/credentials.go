package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"fitchat/provider"
)

// SecurityMethod selects how the credential file is kept on disk.
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext" // credentials.toml, mode 0600
	SecuritySSHKey    SecurityMethod = "ssh_key"   // credentials.enc, sealed with an SSH key
)

// Credential is the secret part of a provider's configuration.
type Credential struct {
	APIKey string `toml:"api_key,omitempty"`

	// Azure OpenAI only; they name the customer's resource.
	Endpoint   string `toml:"endpoint,omitempty"`
	Deployment string `toml:"deployment,omitempty"`
}

func (c Credential) empty() bool {
	return c == Credential{}
}

type credentialFile struct {
	Providers map[string]Credential `toml:"providers"`
}

// CredentialStore holds one Credential per provider.
type CredentialStore struct {
	method     SecurityMethod
	keyPath    string
	passphrase string
	entries    map[provider.ProviderID]Credential
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	if method == "" {
		method = SecurityPlainText
	}
	return &CredentialStore{
		method:  method,
		keyPath: sshKeyPath,
		entries: map[provider.ProviderID]Credential{},
	}
}

// NewCredentialStoreFromConfig creates the store described by [security].
func NewCredentialStoreFromConfig(cfg *Config) *CredentialStore {
	return NewCredentialStore(cfg.Security.Method, cfg.Security.SSHKeyPath)
}

// SetPassphrase unlocks an encrypted SSH key on the next Load or Save.
func (s *CredentialStore) SetPassphrase(passphrase string) {
	s.passphrase = passphrase
}

func (s *CredentialStore) Method() SecurityMethod {
	return s.method
}

// Get returns the stored credential for id, or the zero Credential.
func (s *CredentialStore) Get(id provider.ProviderID) Credential {
	return s.entries[id]
}

// Set stores c for id. The id must be a registered provider, and only Azure
// takes an endpoint or deployment. An empty credential deletes the entry.
func (s *CredentialStore) Set(id provider.ProviderID, c Credential) error {
	desc, err := provider.Describe(id)
	if err != nil {
		return err
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.Deployment = strings.TrimSpace(c.Deployment)

	if desc.Family != provider.FamilyAzure && (c.Endpoint != "" || c.Deployment != "") {
		return fmt.Errorf("%s takes no endpoint or deployment", desc.DisplayName)
	}

	if c.empty() {
		delete(s.entries, id)
		return nil
	}
	s.entries[id] = c
	return nil
}

func (s *CredentialStore) Delete(id provider.ProviderID) {
	delete(s.entries, id)
}

// IDs returns the providers with a stored credential, sorted.
func (s *CredentialStore) IDs() []provider.ProviderID {
	ids := make([]provider.ProviderID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Apply fills the parts of pc that the configuration left empty: the API key
// and, for Azure, the endpoint and deployment options.
func (s *CredentialStore) Apply(pc *provider.Config) {
	c, ok := s.entries[pc.Provider]
	if !ok {
		return
	}
	if pc.APIKey == "" {
		pc.APIKey = c.APIKey
	}

	fill := func(key, value string) {
		if value == "" || pc.Option(key) != "" {
			return
		}
		if pc.Options == nil {
			pc.Options = map[string]string{}
		}
		pc.Options[key] = value
	}
	fill(provider.OptionAzureEndpoint, c.Endpoint)
	fill(provider.OptionAzureDeployment, c.Deployment)
}

// Load reads the credential file from dataDir. A missing file is an empty
// store. Entries for unknown providers are dropped with a warning.
func (s *CredentialStore) Load(dataDir string) error {
	data, found, err := s.read(dataDir)
	if err != nil {
		return err
	}
	if !found {
		s.entries = map[provider.ProviderID]Credential{}
		return nil
	}

	var f credentialFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}

	entries := make(map[provider.ProviderID]Credential, len(f.Providers))
	for name, c := range f.Providers {
		id := provider.ProviderID(name)
		if _, err := provider.Describe(id); err != nil {
			slog.Warn("ignoring stored credential", "provider", name, "error", err)
			continue
		}
		entries[id] = c
	}
	s.entries = entries
	return nil
}

// Save writes the store to dataDir with mode 0600.
func (s *CredentialStore) Save(dataDir string) error {
	f := credentialFile{Providers: make(map[string]Credential, len(s.entries))}
	for id, c := range s.entries {
		f.Providers[string(id)] = c
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	data := buf.Bytes()
	path := filepath.Join(dataDir, "credentials.toml")

	switch s.method {
	case SecurityPlainText:
	case SecuritySSHKey:
		sealer, err := newSSHSealer(s.keyPath, s.passphrase)
		if err != nil {
			return err
		}
		if data, err = sealer.seal(data); err != nil {
			return fmt.Errorf("seal credentials: %w", err)
		}
		path = filepath.Join(dataDir, "credentials.enc")
	default:
		return fmt.Errorf("unknown security method: %s", s.method)
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// read returns the decrypted file contents; found is false when there is no
// credential file yet.
func (s *CredentialStore) read(dataDir string) (data []byte, found bool, err error) {
	name := "credentials.toml"
	if s.method == SecuritySSHKey {
		name = "credentials.enc"
	} else if s.method != SecurityPlainText {
		return nil, false, fmt.Errorf("unknown security method: %s", s.method)
	}

	data, err = os.ReadFile(filepath.Join(dataDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read credentials: %w", err)
	}
	if s.method == SecurityPlainText {
		return data, true, nil
	}

	sealer, err := newSSHSealer(s.keyPath, s.passphrase)
	if err != nil {
		return nil, false, err
	}
	data, err = sealer.open(data)
	return data, err == nil, err
}

// ResolveAPIKey picks the API key for id: an explicit flag value first, then
// FITCHAT_API_KEY, then the store.
func ResolveAPIKey(flagValue string, store *CredentialStore, id provider.ProviderID) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v
	}
	if store == nil {
		return ""
	}
	return store.Get(id).APIKey
}
