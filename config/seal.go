package config

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/ssh"
)

var (
	// ErrPassphraseRequired is returned when the sealing key is encrypted and
	// no passphrase was supplied.
	ErrPassphraseRequired = errors.New("SSH key is encrypted: passphrase required")

	// ErrWrongSSHKey is returned when credentials.enc was sealed with another key.
	ErrWrongSSHKey = errors.New("credentials were sealed with a different SSH key")
)

const sealHeader = "fitchat-sealed-v1\n"

// The SSH key signs this message; the signature seeds the file key. Only
// key types with deterministic signatures can reproduce it.
var sealChallenge = []byte("fitchat credential sealing v1")

var sealableKeyTypes = []string{ssh.KeyAlgoED25519, ssh.KeyAlgoRSA}

// sshSealer encrypts the credential file with XChaCha20-Poly1305 under a key
// derived from an SSH private key. The key fingerprint is written in clear
// ahead of the ciphertext and authenticated with it.
type sshSealer struct {
	fingerprint string
	aead        cipher.AEAD
}

func newSSHSealer(keyPath, passphrase string) (*sshSealer, error) {
	if keyPath == "" {
		return nil, errors.New("no SSH key configured (set security.ssh_key_path)")
	}

	signer, err := loadSigner(keyPath, passphrase)
	if err != nil {
		return nil, err
	}

	keyType := signer.PublicKey().Type()
	if !slices.Contains(sealableKeyTypes, keyType) {
		return nil, fmt.Errorf("%s keys cannot seal credentials; use an ed25519 or RSA key", keyType)
	}

	sig, err := signer.Sign(rand.Reader, sealChallenge)
	if err != nil {
		return nil, fmt.Errorf("sign with SSH key: %w", err)
	}

	fp := ssh.FingerprintSHA256(signer.PublicKey())
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, sig.Blob, []byte(fp), sealChallenge), key); err != nil {
		return nil, fmt.Errorf("derive sealing key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &sshSealer{fingerprint: fp, aead: aead}, nil
}

func (s *sshSealer) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteString(sealHeader)
	out.WriteString(s.fingerprint + "\n")
	out.Write(nonce)
	out.Write(s.aead.Seal(nil, nonce, plaintext, []byte(s.fingerprint)))
	return out.Bytes(), nil
}

func (s *sshSealer) open(data []byte) ([]byte, error) {
	rest, ok := bytes.CutPrefix(data, []byte(sealHeader))
	if !ok {
		return nil, errors.New("not a fitchat sealed file")
	}

	fp, body, ok := bytes.Cut(rest, []byte("\n"))
	if !ok {
		return nil, errors.New("sealed file is truncated")
	}
	if string(fp) != s.fingerprint {
		return nil, fmt.Errorf("%w (file: %s, key: %s)", ErrWrongSSHKey, fp, s.fingerprint)
	}

	n := s.aead.NonceSize()
	if len(body) < n {
		return nil, errors.New("sealed file is truncated")
	}
	plaintext, err := s.aead.Open(nil, body[:n], body[n:], fp)
	if err != nil {
		return nil, fmt.Errorf("sealed file is corrupt: %w", err)
	}
	return plaintext, nil
}

func loadSigner(keyPath, passphrase string) (ssh.Signer, error) {
	pemBytes, err := os.ReadFile(ExpandPath(keyPath))
	if err != nil {
		return nil, fmt.Errorf("read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(pemBytes)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pemBytes, []byte(passphrase))
	}
	if err != nil {
		return nil, fmt.Errorf("parse SSH key %s: %w", keyPath, err)
	}
	return signer, nil
}

// SSHKey is a private key found in ~/.ssh that can seal credentials.
type SSHKey struct {
	Path      string
	Type      string // Empty when the key is encrypted and carries no public part
	Encrypted bool
}

// FindSSHKeys lists the ed25519 and RSA private keys in ~/.ssh.
func FindSSHKeys() []SSHKey {
	paths, _ := filepath.Glob(filepath.Join(GetHomeDir(), ".ssh", "*"))

	var keys []SSHKey
	for _, path := range paths {
		if strings.HasSuffix(path, ".pub") {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil || !bytes.Contains(data, []byte("PRIVATE KEY")) {
			continue
		}

		key := SSHKey{Path: path}
		signer, err := ssh.ParsePrivateKey(data)
		var missing *ssh.PassphraseMissingError
		switch {
		case err == nil:
			key.Type = signer.PublicKey().Type()
		case errors.As(err, &missing):
			key.Encrypted = true
			if missing.PublicKey != nil {
				key.Type = missing.PublicKey.Type()
			}
		default:
			continue
		}

		if key.Type != "" && !slices.Contains(sealableKeyTypes, key.Type) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
