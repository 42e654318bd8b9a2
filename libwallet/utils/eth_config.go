package utils

import (
	"fmt"
)

// SepoliaGovernorAddress is the governor the dashboard targets by default.
const SepoliaGovernorAddress = "0x015b294F6C66D480f7B57085526e73Ed888295dD"

// DefaultRPCURL returns a public JSON-RPC endpoint for the network.
func DefaultRPCURL(netType NetworkType) (string, error) {
	switch netType {
	case Mainnet:
		return "https://ethereum-rpc.publicnode.com", nil
	case Sepolia:
		return "https://ethereum-sepolia-rpc.publicnode.com", nil
	case Goerli:
		return "https://ethereum-goerli-rpc.publicnode.com", nil
	default:
		return "", fmt.Errorf("%v: (%v)", ErrInvalidNet, netType)
	}
}

// ExplorerAddressURL returns the block explorer page of an address or
// contract, empty for an unknown network.
func ExplorerAddressURL(netType NetworkType, address string) string {
	switch netType {
	case Mainnet:
		return "https://etherscan.io/address/" + address
	case Sepolia:
		return "https://sepolia.etherscan.io/address/" + address
	case Goerli:
		return "https://goerli.etherscan.io/address/" + address
	default:
		return ""
	}
}
