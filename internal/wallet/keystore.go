package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Klingon-tech/strata-agent/internal/log"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// keystoreFile is the on-disk JSON format for an encrypted identity secret.
// The address is stored in the clear so tooling can show which identity a
// file holds without asking for the passphrase.
type keystoreFile struct {
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	Network   types.Network `json:"network"`
	Address   string        `json:"address"`
	Secret    *sealedSecret `json:"secret"`
}

const keystoreVersion = 1

// Keystore reads and writes encrypted identity files in a directory.
type Keystore struct {
	dir string
}

// NewKeystore creates a keystore rooted at dir, creating it if needed.
func NewKeystore(dir string) (*Keystore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{dir: dir}, nil
}

func (ks *Keystore) filePath(name string) string {
	return filepath.Join(ks.dir, name+".identity")
}

// Save encrypts the identity's secret under the passphrase and writes it
// as name.identity. Refuses to overwrite an existing file.
func (ks *Keystore) Save(name string, id *Identity, passphrase []byte, params KDFParams) error {
	path := ks.filePath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("identity %q already exists", name)
	}

	secret := id.Key().Serialize()
	defer zeroBytes(secret)

	sealed, err := seal(secret, passphrase, params)
	if err != nil {
		return fmt.Errorf("encrypt secret: %w", err)
	}

	kf := keystoreFile{
		Version:   keystoreVersion,
		CreatedAt: time.Now().UTC(),
		Network:   id.Network,
		Address:   id.AddressString(),
		Secret:    sealed,
	}

	data, err := json.MarshalIndent(&kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity file: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write identity file: %w", err)
	}
	log.Wallet.Info().
		Str("name", name).
		Str("address", kf.Address).
		Msg("identity saved")
	return nil
}

// Load decrypts name.identity and resolves the identity it holds.
func (ks *Keystore) Load(name string, passphrase []byte) (*Identity, error) {
	kf, err := ks.readFile(ks.filePath(name))
	if err != nil {
		return nil, err
	}

	secret, err := kf.Secret.open(passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypt identity %q: %w", name, err)
	}
	defer zeroBytes(secret)

	id, err := Resolve(Source{Secret: fmt.Sprintf("%x", secret)}, kf.Network)
	if err != nil {
		return nil, err
	}

	// The stored address is advisory; the decrypted key is authoritative.
	if kf.Address != "" && kf.Address != id.AddressString() {
		return nil, fmt.Errorf("identity %q: stored address %s does not match key", name, kf.Address)
	}
	log.Wallet.Debug().
		Str("name", name).
		Str("address", id.AddressString()).
		Msg("identity loaded")
	return id, nil
}

// Describe returns the network and address recorded in name.identity
// without decrypting it.
func (ks *Keystore) Describe(name string) (types.Network, string, error) {
	kf, err := ks.readFile(ks.filePath(name))
	if err != nil {
		return "", "", err
	}
	return kf.Network, kf.Address, nil
}

// List returns the names of all identity files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".identity" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes an identity file.
func (ks *Keystore) Delete(name string) error {
	path := ks.filePath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("identity %q not found", name)
	}
	return os.Remove(path)
}

func (ks *Keystore) readFile(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity file: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse identity file: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported identity file version: %d", kf.Version)
	}
	if kf.Secret == nil {
		return nil, fmt.Errorf("identity file has no sealed secret")
	}
	return &kf, nil
}
