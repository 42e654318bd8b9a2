package libwallet

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet/internal/governance"
	"code.cryptopower.dev/group/govdash/libwallet/internal/loader/eth"
	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
)

// InitParams configures a GovernanceManager.
type InitParams struct {
	RootDir     string
	KeystoreDir string
	NetType     utils.NetworkType
	RPCURL      string
	Governor    common.Address

	PollInterval          time.Duration
	RecheckDelay          time.Duration
	HideResultsUntilVoted bool
	Registerer            prometheus.Registerer
}

// GovernanceManager owns the chain connection, the keystore and the
// governance controller of one network.
type GovernanceManager struct {
	params *InitParams

	client     *ethclient.Client
	contracts  *governance.ContractClient
	loader     *eth.KeystoreLoader
	Governance *governance.Governance
}

// NewGovernanceManager dials the RPC endpoint, checks that it serves the
// configured network and binds the governor.
func NewGovernanceManager(ctx context.Context, params *InitParams) (*GovernanceManager, error) {
	errors.Separator = ":: "

	chainParams, err := utils.ETHChainParams(params.NetType)
	if err != nil {
		log.Errorf("error initializing ETH parameters: %s", err.Error())
		return nil, errors.Errorf("error initializing ETH parameters: %s", err.Error())
	}

	rootDir := filepath.Join(params.RootDir, string(params.NetType))
	if err = os.MkdirAll(rootDir, utils.UserFilePerm); err != nil {
		return nil, errors.Errorf("failed to create rootDir: %v", err)
	}

	client, err := ethclient.DialContext(ctx, params.RPCURL)
	if err != nil {
		log.Errorf("Error dialing %s: %v", params.RPCURL, err)
		return nil, errors.E(errors.IO, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, errors.E(errors.IO, err)
	}
	if chainID.Cmp(chainParams.ChainID) != 0 {
		client.Close()
		log.Errorf("RPC endpoint serves chain %v, want %v (%s)", chainID, chainParams.ChainID, params.NetType)
		return nil, errors.E(errors.Invalid, utils.ErrChainIDMismatch)
	}

	contracts, err := governance.NewContractClient(client, params.Governor)
	if err != nil {
		client.Close()
		return nil, err
	}

	gov, err := governance.New(&governance.Config{
		Reader:                contracts,
		PollInterval:          params.PollInterval,
		RecheckDelay:          params.RecheckDelay,
		HideResultsUntilVoted: params.HideResultsUntilVoted,
		Registerer:            params.Registerer,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	mgr := &GovernanceManager{
		params:    params,
		client:    client,
		contracts: contracts,
		loader: eth.NewLoader(&eth.LoaderConf{
			ChainParams: chainParams,
			DataDirPath: rootDir,
			KeystoreDir: params.KeystoreDir,
		}),
		Governance: gov,
	}

	log.Infof("Connected to %s (chain %v), governor %s", params.NetType.Display(), chainID, params.Governor.Hex())
	return mgr, nil
}

func (mgr *GovernanceManager) NetType() utils.NetworkType {
	return mgr.params.NetType
}

func (mgr *GovernanceManager) GovernorAddress() common.Address {
	return mgr.params.Governor
}

// KeystoreAccounts lists the accounts available for signing.
func (mgr *GovernanceManager) KeystoreAccounts() ([]common.Address, error) {
	return mgr.loader.Accounts()
}

// CreateAccount stores a new key encrypted with passphrase.
func (mgr *GovernanceManager) CreateAccount(passphrase []byte) (common.Address, error) {
	return mgr.loader.NewAccount(passphrase)
}

// ConnectKeystoreAccount unlocks address and makes it the voting account. A
// zero address selects the only account of the keystore.
func (mgr *GovernanceManager) ConnectKeystoreAccount(address common.Address, passphrase []byte) error {
	signer, err := mgr.loader.OpenAccount(address, passphrase)
	if err != nil {
		return utils.TranslateError(err)
	}

	mgr.Governance.ConnectWallet(governance.NewContractWallet(mgr.contracts, signer))
	return nil
}

// ConnectWatchingOnlyAccount tracks address without the ability to vote.
func (mgr *GovernanceManager) ConnectWatchingOnlyAccount(address common.Address) error {
	if address == (common.Address{}) {
		return errors.E(errors.Invalid, utils.ErrInvalidAddress)
	}

	mgr.Governance.ConnectWallet(governance.NewWatchingOnlyWallet(mgr.contracts, address))
	return nil
}

// DisconnectAccount locks the keystore account, if any, and forgets it.
func (mgr *GovernanceManager) DisconnectAccount() {
	mgr.Governance.DisconnectWallet()
	if err := mgr.loader.UnloadAccount(); err != nil {
		log.Debugf("Unloading account: %v", err)
	}
}

// Shutdown stops the controller and closes the RPC connection.
func (mgr *GovernanceManager) Shutdown() {
	log.Info("Shutting down governance manager")
	mgr.Governance.Shutdown()
	mgr.DisconnectAccount()
	mgr.client.Close()
}
