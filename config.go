package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libutils "code.cryptopower.dev/group/govdash/libwallet/utils"
	"github.com/ethereum/go-ethereum/common"
	flags "github.com/jessevdk/go-flags"
)

const (
	appName               = "govdash"
	defaultConfigFilename = "govdash.conf"
	defaultLogDirname     = "logs"
	defaultMaxLogZips     = 8
	defaultNetwork        = "sepolia"
	defaultAPIListen      = "127.0.0.1:7790"
	defaultCORSOrigin     = "http://localhost:5173"
	defaultLanguage       = "en"
)

type config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	HomeDir     string `long:"appdata" description:"Path to application data directory"`
	LogDir      string `long:"logdir" description:"Directory to log output."`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical} or a list of <subsystem>=<level> pairs"`
	MaxLogZips  int    `long:"maxlogzips" description:"The number of zipped log files created by the log rotator to be retained. Setting to 0 will keep all."`
	Profile     int    `long:"profile" description:"Runs local web server for profiling"`

	Network     string `long:"network" description:"Network to connect to {mainnet, sepolia, goerli}"`
	RPCURL      string `long:"rpc" description:"Ethereum JSON-RPC endpoint; defaults to a public endpoint of the selected network"`
	Governor    string `long:"governor" description:"Address of the governor contract; defaults to the demo governor on sepolia"`
	Account     string `long:"account" description:"Keystore account to vote with; required when the keystore holds more than one account"`
	WatchOnly   string `long:"watchonly" description:"Track the balance and voting power of this address without signing"`
	KeystoreDir string `long:"keystore" description:"Directory of the encrypted key files; defaults to <appdata>/<network>/keystore"`
	NewAccount  bool   `long:"createaccount" description:"Create a new keystore account and exit"`

	PollInterval time.Duration `long:"pollinterval" description:"Interval at which proposals and their states are refreshed"`
	RecheckDelay time.Duration `long:"recheckdelay" description:"Delay of the second tally fetch after a successful vote"`
	ShowResults  bool          `long:"showresults" description:"Show the tally before the viewer has voted"`

	APIListen   string   `long:"apilisten" description:"Listen address of the local JSON API; empty disables it"`
	CORSOrigins []string `long:"corsorigin" description:"Origin allowed to call the API (may be repeated)"`
	NoConsole   bool     `long:"noconsole" description:"Do not render the page or read commands on the terminal"`
	Notify      bool     `long:"notify" description:"Show desktop notifications when voting opens on a proposal"`
	Language    string   `long:"lang" description:"Display language {en, zh-TW}"`

	netType  libutils.NetworkType
	governor common.Address
	account  common.Address
	watching common.Address
}

func defaultHomeDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func loadConfig() (*config, error) {
	cfg := config{
		HomeDir:      defaultHomeDir(),
		DebugLevel:   libutils.DefaultLogLevel,
		MaxLogZips:   defaultMaxLogZips,
		Network:      defaultNetwork,
		PollInterval: libutils.DefaultPollInterval,
		RecheckDelay: libutils.DefaultRecheckDelay,
		APIListen:    defaultAPIListen,
		Language:     defaultLanguage,
	}

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, err
	}

	if preCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		os.Exit(0)
	}

	homeDir := cleanAndExpandPath(preCfg.HomeDir)
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	if configFile == "" {
		configFile = filepath.Join(homeDir, defaultConfigFilename)
	}

	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) || preCfg.ConfigFile != "" {
			return nil, fmt.Errorf("error parsing config file %s: %w", configFile, err)
		}
	}

	if _, err = parser.Parse(); err != nil {
		return nil, err
	}

	return cfg.validate()
}

// validate resolves paths and network defaults and checks the addresses.
func (cfg *config) validate() (*config, error) {
	cfg.HomeDir = cleanAndExpandPath(cfg.HomeDir)
	cfg.KeystoreDir = cleanAndExpandPath(cfg.KeystoreDir)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
	}
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	cfg.netType = libutils.ToNetworkType(cfg.Network)
	if cfg.netType == libutils.Unknown {
		return nil, fmt.Errorf("%v: (%v)", libutils.ErrInvalidNet, cfg.Network)
	}

	if cfg.RPCURL == "" {
		rpcURL, err := libutils.DefaultRPCURL(cfg.netType)
		if err != nil {
			return nil, err
		}
		cfg.RPCURL = rpcURL
	}

	if cfg.Governor == "" {
		if cfg.netType != libutils.Sepolia {
			return nil, fmt.Errorf("--governor is required on %s", cfg.netType.Display())
		}
		cfg.Governor = libutils.SepoliaGovernorAddress
	}
	var err error
	if cfg.governor, err = parseAddress("governor", cfg.Governor); err != nil {
		return nil, err
	}
	if cfg.Account != "" {
		if cfg.account, err = parseAddress("account", cfg.Account); err != nil {
			return nil, err
		}
	}
	if cfg.WatchOnly != "" {
		if cfg.Account != "" {
			return nil, errors.New("--account and --watchonly are mutually exclusive")
		}
		if cfg.watching, err = parseAddress("watchonly", cfg.WatchOnly); err != nil {
			return nil, err
		}
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("invalid poll interval %v", cfg.PollInterval)
	}
	if cfg.RecheckDelay < 0 {
		return nil, fmt.Errorf("invalid recheck delay %v", cfg.RecheckDelay)
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{defaultCORSOrigin}
	}
	return cfg, nil
}

func parseAddress(name, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", name, s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", name, s)
	}
	return addr, nil
}
