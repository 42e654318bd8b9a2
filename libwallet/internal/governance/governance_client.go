package governance

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// GovernorABI is the subset of the governor interface read and written here.
const GovernorABI = `[
{"inputs":[],"name":"getAllProposals","outputs":[{"components":[
	{"internalType":"uint256","name":"proposalId","type":"uint256"},
	{"internalType":"address","name":"proposer","type":"address"},
	{"internalType":"address[]","name":"targets","type":"address[]"},
	{"internalType":"uint256[]","name":"values","type":"uint256[]"},
	{"internalType":"string[]","name":"signatures","type":"string[]"},
	{"internalType":"bytes[]","name":"calldatas","type":"bytes[]"},
	{"internalType":"uint256","name":"startBlock","type":"uint256"},
	{"internalType":"uint256","name":"endBlock","type":"uint256"},
	{"internalType":"string","name":"description","type":"string"}],
	"internalType":"struct VoteERC20.Proposal[]","name":"allProposals","type":"tuple[]"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"proposalId","type":"uint256"}],"name":"state",
	"outputs":[{"internalType":"enum IGovernorUpgradeable.ProposalState","name":"","type":"uint8"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"proposalId","type":"uint256"}],"name":"proposalVotes",
	"outputs":[{"internalType":"uint256","name":"againstVotes","type":"uint256"},
		{"internalType":"uint256","name":"forVotes","type":"uint256"},
		{"internalType":"uint256","name":"abstainVotes","type":"uint256"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"proposalId","type":"uint256"}],"name":"proposalSnapshot",
	"outputs":[{"internalType":"uint256","name":"","type":"uint256"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"","type":"uint256"}],"name":"proposals",
	"outputs":[{"internalType":"uint256","name":"proposalId","type":"uint256"},
		{"internalType":"address","name":"proposer","type":"address"},
		{"internalType":"uint256","name":"startBlock","type":"uint256"},
		{"internalType":"uint256","name":"endBlock","type":"uint256"},
		{"internalType":"string","name":"description","type":"string"}],
	"stateMutability":"view","type":"function"},
{"inputs":[],"name":"token","outputs":[{"internalType":"contract IVotesUpgradeable","name":"","type":"address"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"proposalId","type":"uint256"},{"internalType":"uint8","name":"support","type":"uint8"}],
	"name":"castVote","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],
	"stateMutability":"nonpayable","type":"function"}
]`

// TokenABI is the subset of the ERC20Votes interface read and written here.
const TokenABI = `[
{"inputs":[{"internalType":"address","name":"account","type":"address"},{"internalType":"uint256","name":"blockNumber","type":"uint256"}],
	"name":"getPastVotes","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"account","type":"address"}],
	"name":"getVotes","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"account","type":"address"}],
	"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"account","type":"address"}],
	"name":"delegates","outputs":[{"internalType":"address","name":"","type":"address"}],
	"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"delegatee","type":"address"}],
	"name":"delegate","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var _ ContractReader = (*ContractClient)(nil)

// Backend is the chain connection the contract client needs: calls,
// transactions and receipt lookups.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// onChainProposal is the tuple returned by getAllProposals. Field names must
// match the ABI component names for abi.ConvertType.
type onChainProposal struct {
	ProposalId  *big.Int
	Proposer    common.Address
	Targets     []common.Address
	Values      []*big.Int
	Signatures  []string
	Calldatas   [][]byte
	StartBlock  *big.Int
	EndBlock    *big.Int
	Description string
}

// ContractClient reads the governor and its token over a Backend.
type ContractClient struct {
	backend  Backend
	governor *bind.BoundContract
	tokenABI abi.ABI

	tokensMu sync.Mutex
	tokens   map[common.Address]*bind.BoundContract
}

// NewContractClient binds the governor deployed at governorAddr.
func NewContractClient(backend Backend, governorAddr common.Address) (*ContractClient, error) {
	const op errors.Op = "governance.NewContractClient"
	if governorAddr == (common.Address{}) {
		return nil, errors.E(op, errors.Invalid, "governor address is required")
	}

	governorABI, err := abi.JSON(strings.NewReader(GovernorABI))
	if err != nil {
		return nil, errors.E(op, err)
	}
	tokenABI, err := abi.JSON(strings.NewReader(TokenABI))
	if err != nil {
		return nil, errors.E(op, err)
	}

	return &ContractClient{
		backend:  backend,
		governor: bind.NewBoundContract(governorAddr, governorABI, backend, backend, backend),
		tokenABI: tokenABI,
		tokens:   make(map[common.Address]*bind.BoundContract),
	}, nil
}

func (c *ContractClient) token(addr common.Address) *bind.BoundContract {
	c.tokensMu.Lock()
	defer c.tokensMu.Unlock()

	contract, ok := c.tokens[addr]
	if !ok {
		contract = bind.NewBoundContract(addr, c.tokenABI, c.backend, c.backend, c.backend)
		c.tokens[addr] = contract
	}
	return contract
}

// Proposals returns every proposal the governor has recorded. The listing
// carries no state, so ListedState is always StateUnknown.
func (c *ContractClient) Proposals(ctx context.Context) ([]*Proposal, error) {
	var out []interface{}
	if err := c.governor.Call(&bind.CallOpts{Context: ctx}, &out, "getAllProposals"); err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(out[0], new([]onChainProposal)).(*[]onChainProposal)
	proposals := make([]*Proposal, 0, len(raw))
	for _, p := range raw {
		proposals = append(proposals, &Proposal{
			ID:          p.ProposalId,
			Proposer:    p.Proposer,
			Description: p.Description,
			StartBlock:  p.StartBlock,
			EndBlock:    p.EndBlock,
			ListedState: StateUnknown,
		})
	}
	return proposals, nil
}

func (c *ContractClient) ProposalState(ctx context.Context, proposalID *big.Int) (ProposalState, error) {
	var out []interface{}
	if err := c.governor.Call(&bind.CallOpts{Context: ctx}, &out, "state", proposalID); err != nil {
		return StateUnknown, err
	}

	state := *abi.ConvertType(out[0], new(uint8)).(*uint8)
	if ProposalState(state) > StateExecuted {
		return StateUnknown, errors.Errorf("unexpected proposal state %d", state)
	}
	return ProposalState(state), nil
}

func (c *ContractClient) ProposalVotes(ctx context.Context, proposalID *big.Int) (*VoteTally, error) {
	var out []interface{}
	if err := c.governor.Call(&bind.CallOpts{Context: ctx}, &out, "proposalVotes", proposalID); err != nil {
		return nil, err
	}

	return &VoteTally{
		Against: *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		For:     *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Abstain: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
	}, nil
}

func (c *ContractClient) ProposalSnapshot(ctx context.Context, proposalID *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := c.governor.Call(&bind.CallOpts{Context: ctx}, &out, "proposalSnapshot", proposalID); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *ContractClient) ProposalMeta(ctx context.Context, proposalID *big.Int) (*ProposalMeta, error) {
	var out []interface{}
	if err := c.governor.Call(&bind.CallOpts{Context: ctx}, &out, "proposals", proposalID); err != nil {
		return nil, err
	}

	return &ProposalMeta{
		StartBlock:  *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		EndBlock:    *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		Description: *abi.ConvertType(out[4], new(string)).(*string),
	}, nil
}

func (c *ContractClient) TokenAddress(ctx context.Context) (common.Address, error) {
	var out []interface{}
	if err := c.governor.Call(&bind.CallOpts{Context: ctx}, &out, "token"); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// VotingPower returns account's votes at block, or its current votes when
// block is zero or not yet mined.
func (c *ContractClient) VotingPower(ctx context.Context, token, account common.Address, block *big.Int) (*big.Int, error) {
	contract := c.token(token)
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if block != nil && block.Sign() > 0 {
		err := contract.Call(opts, &out, "getPastVotes", account, block)
		if err == nil {
			return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		log.Debugf("getPastVotes(%s, %s) failed, using current votes: %v", account.Hex(), block, err)
		out = nil
	}

	if err := contract.Call(opts, &out, "getVotes", account); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *ContractClient) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := c.token(token).Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *ContractClient) Delegates(ctx context.Context, token, account common.Address) (common.Address, error) {
	var out []interface{}
	if err := c.token(token).Call(&bind.CallOpts{Context: ctx}, &out, "delegates", account); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Signer produces transaction options for one account.
type Signer interface {
	Address() common.Address
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

var _ Wallet = (*ContractWallet)(nil)

// ContractWallet signs votes and delegations with a Signer. A nil signer
// makes a watching-only wallet.
type ContractWallet struct {
	client  *ContractClient
	address common.Address
	signer  Signer
}

// NewContractWallet returns a wallet that signs with signer.
func NewContractWallet(client *ContractClient, signer Signer) *ContractWallet {
	return &ContractWallet{
		client:  client,
		address: signer.Address(),
		signer:  signer,
	}
}

// NewWatchingOnlyWallet returns a wallet that tracks address but cannot sign.
func NewWatchingOnlyWallet(client *ContractClient, address common.Address) *ContractWallet {
	return &ContractWallet{
		client:  client,
		address: address,
	}
}

func (w *ContractWallet) Address() common.Address {
	return w.address
}

func (w *ContractWallet) IsWatchingOnly() bool {
	return w.signer == nil
}

func (w *ContractWallet) CastVote(ctx context.Context, proposalID *big.Int, choice VoteChoice) error {
	const op errors.Op = "governance.CastVote"
	return w.transact(ctx, op, w.client.governor, "castVote", proposalID, uint8(choice))
}

func (w *ContractWallet) Delegate(ctx context.Context, token, delegatee common.Address) error {
	const op errors.Op = "governance.Delegate"
	return w.transact(ctx, op, w.client.token(token), "delegate", delegatee)
}

// transact submits method and waits until it is mined. A reverted receipt is
// reported as a protocol error.
func (w *ContractWallet) transact(ctx context.Context, op errors.Op, contract *bind.BoundContract, method string, params ...interface{}) error {
	if w.signer == nil {
		return errors.E(op, errors.WatchingOnly, "watching-only account cannot sign")
	}

	opts, err := w.signer.TransactOpts(ctx)
	if err != nil {
		return errors.E(op, err)
	}

	tx, err := contract.Transact(opts, method, params...)
	if err != nil {
		return errors.E(op, err)
	}
	log.Infof("Submitted %s transaction %s", method, tx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, w.client.backend, tx)
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return errors.E(op, errors.Protocol, errors.Errorf("transaction %s reverted", tx.Hash().Hex()))
	}
	return nil
}
