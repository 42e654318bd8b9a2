package loader

import (
	"os"
	"path/filepath"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/common"
)

const keystoreDirName = "keystore"

type Loader struct {
	// The full keystore path follows the format
	// ~.govdash/[network_selected]/keystore. DataDirPath by default is only
	// expected to hold the path upto the [network_selected] folder.
	DataDirPath string
	// KeystoreDir overrides the derived keystore path when set.
	KeystoreDir string
}

// AccountLoader defines the interface exported by the account loader of a
// chain.
type AccountLoader interface {
	KeystorePath() string
	Accounts() ([]common.Address, error)
	NewAccount(passphrase []byte) (common.Address, error)
	UnloadAccount() error
}

func NewLoader(dataDirPath, keystoreDir string) *Loader {
	return &Loader{
		DataDirPath: dataDirPath,
		KeystoreDir: keystoreDir,
	}
}

// KeystorePath returns the directory holding the encrypted key files.
func (l *Loader) KeystorePath() string {
	if l.KeystoreDir != "" {
		return l.KeystoreDir
	}
	return filepath.Join(l.DataDirPath, keystoreDirName)
}

// CreateDirPath checks that the keystore directory exists and creates it if
// it doesn't.
func (l *Loader) CreateDirPath() (string, error) {
	folderPath := l.KeystorePath()
	file, err := os.Stat(folderPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err = os.MkdirAll(folderPath, utils.UserFilePerm); err != nil {
			return "", err
		}
		return folderPath, nil
	}

	if !file.IsDir() {
		return "", errors.Errorf("%q is not a directory", folderPath)
	}
	return folderPath, nil
}

// DirExists reports whether the keystore directory exists.
func (l *Loader) DirExists() (bool, error) {
	_, err := os.Stat(l.KeystorePath())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
