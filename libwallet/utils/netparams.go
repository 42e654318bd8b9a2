package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Sepolia NetworkType = "sepolia"
	Goerli  NetworkType = "goerli"
	Unknown NetworkType = "unknown"
)

// Display returns the title case network name to be displayed on the UI.
func (n NetworkType) Display() string {
	caser := cases.Title(language.Und)
	return caser.String(string(n))
}

// ToNetworkType maps the provided network string identifier to the available
// network type constants.
func ToNetworkType(str string) NetworkType {
	switch strings.ToLower(str) {
	case "mainnet", "main", "ethereum":
		return Mainnet
	case "sepolia", "testnet", "test":
		return Sepolia
	case "goerli", "gorli":
		return Goerli
	default:
		return Unknown
	}
}

var (
	ETHMainnetParams = params.MainnetChainConfig
	ETHSepoliaParams = params.SepoliaChainConfig
	ETHGoerliParams  = params.GoerliChainConfig
)

// ETHChainParams returns the chain config of the provided network.
func ETHChainParams(netType NetworkType) (*params.ChainConfig, error) {
	switch netType {
	case Mainnet:
		return ETHMainnetParams, nil
	case Sepolia:
		return ETHSepoliaParams, nil
	case Goerli:
		return ETHGoerliParams, nil
	default:
		return nil, fmt.Errorf("%v: (%v)", ErrInvalidNet, netType)
	}
}

// ChainID returns the EIP-155 chain id of the provided network.
func ChainID(netType NetworkType) (*big.Int, error) {
	chainParams, err := ETHChainParams(netType)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(chainParams.ChainID), nil
}
