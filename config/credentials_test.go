package config

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"

	"fitchat/provider"
)

func writeKey(t *testing.T, dir, name string, priv any, passphrase string) string {
	t.Helper()

	var (
		block *pem.Block
		err   error
	)
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "fitchat test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "fitchat test", []byte(passphrase))
	}
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTestKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return writeKey(t, t.TempDir(), "id_ed25519", priv, passphrase)
}

func mustSet(t *testing.T, s *CredentialStore, id provider.ProviderID, c Credential) {
	t.Helper()
	if err := s.Set(id, c); err != nil {
		t.Fatalf("Set(%s) error = %v", id, err)
	}
}

func TestPlainTextCredentials(t *testing.T) {
	dataDir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	mustSet(t, store, provider.OpenAI, Credential{APIKey: "sk-openai"})
	mustSet(t, store, provider.Azure, Credential{
		APIKey:     "az-key",
		Endpoint:   "https://fitness.openai.azure.com",
		Deployment: "fitness-gpt4o",
	})
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path := filepath.Join(dataDir, "credentials.toml")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credentials.toml mode = %v, want 0600", info.Mode().Perm())
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "[providers.azure]") {
		t.Errorf("credentials.toml = %q, want a [providers.azure] table", raw)
	}

	loaded := NewCredentialStore(SecurityPlainText, "")
	if err := loaded.Load(dataDir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Get(provider.OpenAI).APIKey; got != "sk-openai" {
		t.Errorf("Get(openai).APIKey = %q", got)
	}
	if got := loaded.Get(provider.Azure).Deployment; got != "fitness-gpt4o" {
		t.Errorf("Get(azure).Deployment = %q", got)
	}
	if got := loaded.IDs(); !slices.Equal(got, []provider.ProviderID{provider.Azure, provider.OpenAI}) {
		t.Errorf("IDs() = %v", got)
	}

	loaded.Delete(provider.OpenAI)
	if !loaded.Get(provider.OpenAI).empty() {
		t.Error("Delete did not remove the credential")
	}
}

func TestCredentialSetValidation(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")

	if err := store.Set("cohere", Credential{APIKey: "k"}); !errors.Is(err, provider.ErrUnknownProvider) {
		t.Errorf("Set(cohere) error = %v, want ErrUnknownProvider", err)
	}
	if err := store.Set(provider.OpenAI, Credential{APIKey: "k", Endpoint: "https://x"}); err == nil {
		t.Error("Set(openai) with an endpoint expected an error")
	}

	mustSet(t, store, provider.Gemini, Credential{APIKey: "  AIza  "})
	if got := store.Get(provider.Gemini).APIKey; got != "AIza" {
		t.Errorf("APIKey = %q, want it trimmed", got)
	}

	mustSet(t, store, provider.Gemini, Credential{})
	if ids := store.IDs(); len(ids) != 0 {
		t.Errorf("empty credential kept: %v", ids)
	}
}

func TestLoadDropsUnknownProviders(t *testing.T) {
	dataDir := t.TempDir()
	content := "[providers.openai]\napi_key = \"sk\"\n\n[providers.openrouter]\napi_key = \"or\"\n"
	if err := os.WriteFile(filepath.Join(dataDir, "credentials.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewCredentialStore(SecurityPlainText, "")
	if err := store.Load(dataDir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := store.IDs(); !slices.Equal(got, []provider.ProviderID{provider.OpenAI}) {
		t.Errorf("IDs() = %v, want [openai]", got)
	}
}

func TestApply(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")
	mustSet(t, store, provider.Azure, Credential{
		APIKey:     "az-key",
		Endpoint:   "https://stored.openai.azure.com",
		Deployment: "stored-dep",
	})

	pc := provider.Config{
		Provider: provider.Azure,
		Options:  map[string]string{provider.OptionAzureDeployment: "configured-dep"},
	}
	store.Apply(&pc)

	if pc.APIKey != "az-key" {
		t.Errorf("APIKey = %q", pc.APIKey)
	}
	if got := pc.Option(provider.OptionAzureEndpoint); got != "https://stored.openai.azure.com" {
		t.Errorf("endpoint = %q, want the stored one", got)
	}
	if got := pc.Option(provider.OptionAzureDeployment); got != "configured-dep" {
		t.Errorf("deployment = %q, want the configured one", got)
	}

	other := provider.Config{Provider: provider.OpenAI, APIKey: "flag"}
	store.Apply(&other)
	if other.APIKey != "flag" || other.Options != nil {
		t.Errorf("Apply changed an unrelated provider: %+v", other)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	for _, method := range []SecurityMethod{SecurityPlainText, SecuritySSHKey} {
		store := NewCredentialStore(method, "/nonexistent/key")
		if err := store.Load(t.TempDir()); err != nil {
			t.Errorf("%s: Load() error = %v", method, err)
		}
		if len(store.IDs()) != 0 {
			t.Errorf("%s: expected empty store", method)
		}
	}
}

func TestSSHKeyCredentials(t *testing.T) {
	dataDir := t.TempDir()
	keyPath := writeTestKey(t, "")

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	mustSet(t, store, provider.Gemini, Credential{APIKey: "AIza-secret"})
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, "credentials.enc"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "AIza-secret") {
		t.Error("credentials.enc contains the key in plain text")
	}
	if !strings.HasPrefix(string(raw), sealHeader+"SHA256:") {
		t.Errorf("credentials.enc does not start with the header and fingerprint: %q", raw[:40])
	}

	loaded := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := loaded.Load(dataDir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Get(provider.Gemini).APIKey; got != "AIza-secret" {
		t.Errorf("Get(gemini).APIKey = %q", got)
	}
}

func TestSSHKeyCredentialsWrongKey(t *testing.T) {
	dataDir := t.TempDir()

	store := NewCredentialStore(SecuritySSHKey, writeTestKey(t, ""))
	mustSet(t, store, provider.XAI, Credential{APIKey: "xai-secret"})
	if err := store.Save(dataDir); err != nil {
		t.Fatal(err)
	}

	other := NewCredentialStore(SecuritySSHKey, writeTestKey(t, ""))
	if err := other.Load(dataDir); !errors.Is(err, ErrWrongSSHKey) {
		t.Errorf("Load() with a different key error = %v, want ErrWrongSSHKey", err)
	}
}

func TestSSHKeyCredentialsMissingKey(t *testing.T) {
	dataDir := t.TempDir()

	store := NewCredentialStore(SecuritySSHKey, writeTestKey(t, ""))
	mustSet(t, store, provider.XAI, Credential{APIKey: "xai-secret"})
	if err := store.Save(dataDir); err != nil {
		t.Fatal(err)
	}

	gone := NewCredentialStore(SecuritySSHKey, filepath.Join(t.TempDir(), "id_missing"))
	if err := gone.Load(dataDir); err == nil {
		t.Error("Load() with a missing SSH key expected an error, not an empty store")
	}
}

func TestSealedFileTampered(t *testing.T) {
	sealer, err := newSSHSealer(writeTestKey(t, ""), "")
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := sealer.seal([]byte("[providers.openai]\napi_key = \"sk\"\n"))
	if err != nil {
		t.Fatal(err)
	}

	sealed[len(sealed)-1] ^= 0xff
	if _, err := sealer.open(sealed); err == nil {
		t.Error("open() accepted a modified ciphertext")
	}
	if _, err := sealer.open([]byte("plain text")); err == nil {
		t.Error("open() accepted a file without the header")
	}
}

func TestEncryptedSSHKeyNeedsPassphrase(t *testing.T) {
	dataDir := t.TempDir()
	keyPath := writeTestKey(t, "hunter2")

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	mustSet(t, store, provider.OpenAI, Credential{APIKey: "sk"})
	if err := store.Save(dataDir); !errors.Is(err, ErrPassphraseRequired) {
		t.Fatalf("Save() error = %v, want ErrPassphraseRequired", err)
	}

	store.SetPassphrase("hunter2")
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() with passphrase error = %v", err)
	}

	loaded := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := loaded.Load(dataDir); !errors.Is(err, ErrPassphraseRequired) {
		t.Fatalf("Load() without passphrase error = %v, want ErrPassphraseRequired", err)
	}
	loaded.SetPassphrase("hunter2")
	if err := loaded.Load(dataDir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Get(provider.OpenAI).APIKey != "sk" {
		t.Error("round trip through an encrypted key lost the credential")
	}
}

func TestSealRejectsECDSA(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	path := writeKey(t, t.TempDir(), "id_ecdsa", priv, "")

	if _, err := newSSHSealer(path, ""); err == nil {
		t.Error("newSSHSealer() accepted an ECDSA key")
	}
}

func TestFindSSHKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	sshDir := filepath.Join(home, ".ssh")
	if err := os.Mkdir(sshDir, 0700); err != nil {
		t.Fatal(err)
	}

	_, edKey, _ := ed25519.GenerateKey(rand.Reader)
	writeKey(t, sshDir, "id_ed25519", edKey, "")
	writeKey(t, sshDir, "work_ed25519", edKey, "secret")
	ecKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	writeKey(t, sshDir, "id_ecdsa", ecKey, "")
	_ = os.WriteFile(filepath.Join(sshDir, "id_ed25519.pub"), []byte("ssh-ed25519 AAAA test"), 0644)
	_ = os.WriteFile(filepath.Join(sshDir, "known_hosts"), []byte("host ssh-ed25519 AAAA"), 0644)

	keys := FindSSHKeys()
	if len(keys) != 2 {
		t.Fatalf("FindSSHKeys() = %+v, want the two ed25519 keys", keys)
	}
	if filepath.Base(keys[0].Path) != "id_ed25519" || keys[0].Encrypted || keys[0].Type != ssh.KeyAlgoED25519 {
		t.Errorf("keys[0] = %+v", keys[0])
	}
	if filepath.Base(keys[1].Path) != "work_ed25519" || !keys[1].Encrypted {
		t.Errorf("keys[1] = %+v", keys[1])
	}
}

func TestResolveAPIKey(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")
	mustSet(t, store, provider.OpenAI, Credential{APIKey: "from-store"})

	t.Setenv(EnvAPIKey, "")
	if got := ResolveAPIKey("", store, provider.OpenAI); got != "from-store" {
		t.Errorf("store fallback = %q", got)
	}

	t.Setenv(EnvAPIKey, "from-env")
	if got := ResolveAPIKey("", store, provider.OpenAI); got != "from-env" {
		t.Errorf("env override = %q", got)
	}
	if got := ResolveAPIKey("from-flag", store, provider.OpenAI); got != "from-flag" {
		t.Errorf("flag override = %q", got)
	}

	t.Setenv(EnvAPIKey, "")
	if got := ResolveAPIKey("", nil, provider.OpenAI); got != "" {
		t.Errorf("nil store = %q", got)
	}
}

func TestGetDefaultDataDir(t *testing.T) {
	t.Setenv("HOME", "/home/runner")

	t.Setenv("XDG_DATA_HOME", "/srv/xdg")
	if got := GetDefaultDataDir(); got != "/srv/xdg/fitchat" {
		t.Errorf("with XDG_DATA_HOME = %q", got)
	}

	t.Setenv("XDG_DATA_HOME", "")
	if got := GetDefaultDataDir(); got != "/home/runner/.local/share/fitchat" {
		t.Errorf("default = %q", got)
	}
}
