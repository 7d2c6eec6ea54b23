package account

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"syscall"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// Signer owns a sending address and can sign transactions for it.
type Signer interface {
	Address() ethcommon.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// KeySigner signs with an in-memory secp256k1 key, loaded either from
// the PRIVATE_KEY env var or from an encrypted keystore file.
type KeySigner struct {
	key *ecdsa.PrivateKey
}

func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

// NewKeySignerFromEnv builds a signer from the PRIVATE_KEY env var. When
// the var is unset it falls back to the keystore at the given path.
func NewKeySignerFromEnv(keystorePath string) (*KeySigner, error) {
	if hexkey := os.Getenv("PRIVATE_KEY"); hexkey != "" {
		priv, err := crypto.HexToECDSA(hexkey)
		if err != nil {
			return nil, fmt.Errorf("PRIVATE_KEY is not a valid hex private key: %w", err)
		}
		return NewKeySigner(priv), nil
	}
	return NewKeySignerFromKeystore(keystorePath)
}

// NewKeySignerFromKeystore unlocks an encrypted keystore file, prompting
// for the passphrase on the terminal.
func NewKeySignerFromKeystore(path string) (*KeySigner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read keystore %s: %w", path, err)
	}
	pwd := getPassword(fmt.Sprintf("Enter passphrase for %s: ", path))
	key, err := gethkeystore.DecryptKey(content, pwd)
	if err != nil {
		return nil, fmt.Errorf("unlocking keystore %s failed: %w", path, err)
	}
	return NewKeySigner(key.PrivateKey), nil
}

func (ks *KeySigner) Address() ethcommon.Address {
	return crypto.PubkeyToAddress(ks.key.PublicKey)
}

func (ks *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), ks.key)
}

func getPassword(prompt string) string {
	fmt.Print(prompt)
	bytePassword, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(bytePassword)
}

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// KeystoreDir is where imported keys live.
func KeystoreDir() string {
	return filepath.Join(getHomeDir(), ".warden", "keystores")
}

// ImportPrivateKey encrypts a raw hex private key into a keystore file
// under the keystore dir and returns the file path.
func ImportPrivateKey(privateKey string, passphrase string) (string, error) {
	priv, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return "", fmt.Errorf("not a valid hex private key: %w", err)
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	key := &gethkeystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	keystoreJson, err := gethkeystore.EncryptKey(
		key,
		passphrase,
		gethkeystore.StandardScryptN,
		gethkeystore.StandardScryptP,
	)
	if err != nil {
		return "", err
	}
	dir := KeystoreDir()
	if err = os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", key.Address.Hex()))
	return path, os.WriteFile(path, keystoreJson, 0600)
}

// PromptNewPassphrase reads a passphrase twice from the terminal and
// makes sure both entries match.
func PromptNewPassphrase() (string, error) {
	first := getPassword("Enter passphrase: ")
	second := getPassword("Repeat passphrase: ")
	if first != second {
		return "", fmt.Errorf("passphrases don't match")
	}
	return first, nil
}

// ListKeystores returns the keystore file paths under the keystore dir.
func ListKeystores() ([]string, error) {
	return filepath.Glob(filepath.Join(KeystoreDir(), "*.json"))
}
