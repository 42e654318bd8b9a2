package libwallet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"

	"code.cryptopower.dev/group/govdash/libwallet"
	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// chainIDServer answers eth_chainId with chainID and fails every other call.
func chainIDServer(chainID string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if req.Method == "eth_chainId" {
			resp["result"] = chainID
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

var _ = Describe("GovernanceManager", func() {
	var (
		rootDir string
		server  *httptest.Server
	)

	BeforeEach(func() {
		var err error
		rootDir, err = os.MkdirTemp("", "govdash-manager")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
		os.RemoveAll(rootDir)
	})

	params := func(netType utils.NetworkType) *libwallet.InitParams {
		return &libwallet.InitParams{
			RootDir:  rootDir,
			NetType:  netType,
			RPCURL:   server.URL,
			Governor: common.HexToAddress(utils.SepoliaGovernorAddress),
		}
	}

	It("rejects an endpoint serving another chain", func() {
		server = chainIDServer("0x1")

		_, err := libwallet.NewGovernanceManager(context.Background(), params(utils.Sepolia))
		Expect(err).To(HaveOccurred())
		Expect(utils.TranslateError(err).Error()).To(Equal(utils.ErrChainIDMismatch))
	})

	It("rejects an unknown network", func() {
		server = chainIDServer("0xaa36a7")

		_, err := libwallet.NewGovernanceManager(context.Background(), params(utils.Unknown))
		Expect(err).To(HaveOccurred())
	})

	Context("when the endpoint serves the configured network", func() {
		var mgr *libwallet.GovernanceManager

		BeforeEach(func() {
			server = chainIDServer("0xaa36a7")

			var err error
			mgr, err = libwallet.NewGovernanceManager(context.Background(), params(utils.Sepolia))
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			mgr.Shutdown()
		})

		It("binds the configured governor", func() {
			Expect(mgr.NetType()).To(Equal(utils.Sepolia))
			Expect(mgr.GovernorAddress()).To(Equal(common.HexToAddress(utils.SepoliaGovernorAddress)))
		})

		It("starts with an empty keystore and no account", func() {
			accounts, err := mgr.KeystoreAccounts()
			Expect(err).NotTo(HaveOccurred())
			Expect(accounts).To(BeEmpty())

			vm := mgr.Governance.ViewModel()
			Expect(vm.Account).To(BeNil())
			Expect(vm.Loading).To(BeTrue())
		})

		It("connects a watching-only account", func() {
			Expect(mgr.ConnectWatchingOnlyAccount(common.Address{})).To(HaveOccurred())

			addr := common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")
			Expect(mgr.ConnectWatchingOnlyAccount(addr)).To(Succeed())

			vm := mgr.Governance.ViewModel()
			Expect(vm.Account).NotTo(BeNil())
			Expect(vm.Account.Address).To(Equal(addr))
			Expect(vm.Account.WatchingOnly).To(BeTrue())
			Expect(vm.CanVote).To(BeFalse())

			mgr.DisconnectAccount()
			Expect(mgr.Governance.ViewModel().Account).To(BeNil())
		})

		It("reports a missing keystore account", func() {
			err := mgr.ConnectKeystoreAccount(common.Address{}, []byte("pass"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal(utils.ErrNotExist))
		})
	})
})
