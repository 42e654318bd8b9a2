package main

import (
	"bytes"
	"context"
	"fmt"
	golog "log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"code.cryptopower.dev/group/govdash/api"
	"code.cryptopower.dev/group/govdash/libwallet"
	libutils "code.cryptopower.dev/group/govdash/libwallet/utils"
	"code.cryptopower.dev/group/govdash/logger"
	"code.cryptopower.dev/group/govdash/ui/notification"
	"code.cryptopower.dev/group/govdash/ui/page/governance"
	"code.cryptopower.dev/group/govdash/ui/values"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	// Version is the application version. It is set using the -ldflags
	Version = "0.1.0"
	// BuildDate is the date the application was built. It is set using the -ldflags
	BuildDate string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Profile > 0 {
		go func() {
			golog.Printf("Starting profiling server on port %d\n", cfg.Profile)
			golog.Println(http.ListenAndServe(fmt.Sprintf("127.0.0.1:%d", cfg.Profile), nil))
		}()
	}

	// Initialize loggers and set log level before the manager is
	// initialized.
	initLogRotator(filepath.Join(cfg.LogDir, string(cfg.netType)), cfg.MaxLogZips)
	defer logRotator.Close()
	if err := logger.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}
	if err := values.SetUserLanguage(cfg.Language); err != nil {
		return err
	}
	log.Infof("%s version %s (built %s)", appName, Version, BuildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mgr, err := libwallet.NewGovernanceManager(ctx, &libwallet.InitParams{
		RootDir:               cfg.HomeDir,
		KeystoreDir:           cfg.KeystoreDir,
		NetType:               cfg.netType,
		RPCURL:                cfg.RPCURL,
		Governor:              cfg.governor,
		PollInterval:          cfg.PollInterval,
		RecheckDelay:          cfg.RecheckDelay,
		HideResultsUntilVoted: !cfg.ShowResults,
		Registerer:            registry,
	})
	if err != nil {
		return err
	}
	defer mgr.Shutdown()

	if cfg.NewAccount {
		return createAccount(mgr)
	}
	if err := connectAccount(cfg, mgr); err != nil {
		return err
	}

	if cfg.Notify {
		if err := mgr.Governance.AddNotificationListener(notification.NewSystemNotification(""), "desktop-notifications"); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := mgr.Governance.Sync(gctx); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})

	if cfg.APIListen != "" {
		server := api.New(mgr.Governance, &api.Config{
			Listen:         cfg.APIListen,
			AllowedOrigins: cfg.CORSOrigins,
			Gatherer:       registry,
			NetType:        cfg.netType,
			Governor:       cfg.governor.Hex(),
		})
		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	if !cfg.NoConsole {
		console := governance.NewConsole(mgr.Governance, governance.PageInfo{
			NetType:  cfg.netType,
			Governor: cfg.governor.Hex(),
		}, os.Stdin, os.Stdout)
		g.Go(func() error {
			defer cancel()
			return console.Run(gctx)
		})
	}

	err = g.Wait()
	log.Info("Shutting down")
	return err
}

// connectAccount connects the watching-only address, or unlocks a keystore
// account when the keystore has any. Without either the dashboard is read
// only.
func connectAccount(cfg *config, mgr *libwallet.GovernanceManager) error {
	if cfg.watching != (common.Address{}) {
		return mgr.ConnectWatchingOnlyAccount(cfg.watching)
	}

	accounts, err := mgr.KeystoreAccounts()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		if cfg.account != (common.Address{}) {
			return fmt.Errorf("account %s is not in the keystore", cfg.account.Hex())
		}
		log.Info("Keystore is empty, running without an account")
		return nil
	}

	label := cfg.account
	if label == (common.Address{}) && len(accounts) == 1 {
		label = accounts[0]
	}
	passphrase, err := promptPassphrase(values.StringF(values.StrEnterPassphrase, libutils.ShortenAddress(label.Hex())))
	if err != nil {
		return err
	}
	if err := mgr.ConnectKeystoreAccount(cfg.account, passphrase); err != nil {
		return fmt.Errorf("%s", values.TranslateErr(err.Error()))
	}
	return nil
}

func createAccount(mgr *libwallet.GovernanceManager) error {
	passphrase, err := promptPassphrase("New passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassphrase("Confirm passphrase: ")
	if err != nil {
		return err
	}
	if !bytes.Equal(passphrase, confirm) {
		return fmt.Errorf("passphrases do not match")
	}

	addr, err := mgr.CreateAccount(passphrase)
	if err != nil {
		return err
	}
	fmt.Printf("Created account %s\n", addr.Hex())
	return nil
}

func promptPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("a terminal is required to read the passphrase")
	}
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	return passphrase, err
}
