package eth

import (
	"context"
	"math/big"
	"sync"

	"code.cryptopower.dev/group/govdash/libwallet/internal/loader"
	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// KeystoreLoader opens accounts from an encrypted go-ethereum keystore and
// unlocks them for signing.
//
// KeystoreLoader is safe for concurrent access.
type KeystoreLoader struct {
	*loader.Loader

	chainParams *params.ChainConfig
	scryptN     int
	scryptP     int

	ks      *keystore.KeyStore
	account *accounts.Account

	mu sync.RWMutex
}

type LoaderConf struct {
	ChainParams *params.ChainConfig
	DataDirPath string
	KeystoreDir string
	// LightScrypt uses the light key derivation parameters. Only meant for
	// tests.
	LightScrypt bool
}

// Confirm that KeystoreLoader implements the complete account loader interface.
var _ loader.AccountLoader = (*KeystoreLoader)(nil)

// NewLoader constructs an ETH Loader.
func NewLoader(cfg *LoaderConf) *KeystoreLoader {
	l := &KeystoreLoader{
		chainParams: cfg.ChainParams,
		scryptN:     keystore.StandardScryptN,
		scryptP:     keystore.StandardScryptP,

		Loader: loader.NewLoader(cfg.DataDirPath, cfg.KeystoreDir),
	}
	if cfg.LightScrypt {
		l.scryptN, l.scryptP = keystore.LightScryptN, keystore.LightScryptP
	}
	return l
}

func (l *KeystoreLoader) openKeystore() (*keystore.KeyStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ks != nil {
		return l.ks, nil
	}
	dir, err := l.CreateDirPath()
	if err != nil {
		return nil, err
	}
	l.ks = keystore.NewKeyStore(dir, l.scryptN, l.scryptP)
	return l.ks, nil
}

// Accounts lists the addresses held in the keystore.
func (l *KeystoreLoader) Accounts() ([]common.Address, error) {
	ks, err := l.openKeystore()
	if err != nil {
		return nil, err
	}

	accts := ks.Accounts()
	addrs := make([]common.Address, 0, len(accts))
	for _, acct := range accts {
		addrs = append(addrs, acct.Address)
	}
	return addrs, nil
}

// NewAccount generates a key, stores it encrypted with passphrase and returns
// its address.
func (l *KeystoreLoader) NewAccount(passphrase []byte) (common.Address, error) {
	const op errors.Op = "loader.NewAccount"
	if len(passphrase) == 0 {
		return common.Address{}, errors.E(op, errors.Invalid, utils.ErrInvalidPassphrase)
	}

	ks, err := l.openKeystore()
	if err != nil {
		return common.Address{}, errors.E(op, errors.IO, err)
	}
	acct, err := ks.NewAccount(string(passphrase))
	if err != nil {
		return common.Address{}, errors.E(op, errors.IO, err)
	}

	log.Infof("Created account %s", acct.Address.Hex())
	return acct.Address, nil
}

// OpenAccount unlocks address with passphrase. A zero address selects the
// only account of the keystore.
func (l *KeystoreLoader) OpenAccount(address common.Address, passphrase []byte) (*KeystoreSigner, error) {
	const op errors.Op = "loader.OpenAccount"

	ks, err := l.openKeystore()
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}

	if address == (common.Address{}) {
		accts := ks.Accounts()
		switch len(accts) {
		case 0:
			return nil, errors.E(op, errors.NotExist, "found no existing ETH account")
		case 1:
			address = accts[0].Address
		default:
			return nil, errors.E(op, errors.Invalid, "keystore holds several accounts, select one")
		}
	}

	acct, err := ks.Find(accounts.Account{Address: address})
	if err != nil {
		return nil, errors.E(op, errors.NotExist, err)
	}
	if err := ks.Unlock(acct, string(passphrase)); err != nil {
		if err == keystore.ErrDecrypt {
			return nil, errors.E(op, errors.Passphrase, err)
		}
		return nil, errors.E(op, errors.IO, err)
	}

	l.mu.Lock()
	l.account = &acct
	l.mu.Unlock()

	log.Infof("Opened account %s", acct.Address.Hex())
	return &KeystoreSigner{
		ks:      ks,
		account: acct,
		chainID: new(big.Int).Set(l.chainParams.ChainID),
	}, nil
}

// UnloadAccount locks the opened account again.
func (l *KeystoreLoader) UnloadAccount() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.account == nil {
		return errors.E(errors.Invalid, "account is not open")
	}
	if err := l.ks.Lock(l.account.Address); err != nil {
		return err
	}
	l.account = nil
	return nil
}

// KeystoreSigner signs transactions with an unlocked keystore account.
type KeystoreSigner struct {
	ks      *keystore.KeyStore
	account accounts.Account
	chainID *big.Int
}

func (s *KeystoreSigner) Address() common.Address {
	return s.account.Address
}

func (s *KeystoreSigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyStoreTransactorWithChainID(s.ks, s.account, s.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}
