// Strata agent daemon: resolves the signing identity and serves the
// JSON-RPC tool API.
//
// Usage:
//
//	strata-agentd [-network testnet -node http://...]  Run the tool server
//	strata-agentd -help                                Show help
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/Klingon-tech/strata-agent/config"
	"github.com/Klingon-tech/strata-agent/internal/agent"
	"github.com/Klingon-tech/strata-agent/internal/log"
	"github.com/Klingon-tech/strata-agent/internal/wallet"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logFile := cfg.Log.File
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logging: %v\n", err)
		os.Exit(1)
	}

	id, err := resolveIdentity(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a, err := agent.New(cfg, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := a.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.Stop()
}

// resolveIdentity turns the configured identity source into a key,
// prompting for the keystore passphrase when needed.
func resolveIdentity(cfg *config.Config) (*wallet.Identity, error) {
	if cfg.Identity.Keystore != "" {
		ks, err := wallet.NewKeystore(cfg.KeystoreDir())
		if err != nil {
			return nil, err
		}
		pass := []byte(cfg.Identity.Passphrase)
		if len(pass) == 0 {
			pass, err = readPassword(fmt.Sprintf("Passphrase for identity %q: ", cfg.Identity.Keystore))
			if err != nil {
				return nil, err
			}
		}
		return ks.Load(cfg.Identity.Keystore, pass)
	}

	return wallet.Resolve(wallet.Source{
		Secret:     cfg.Identity.Secret,
		Mnemonic:   cfg.Identity.Mnemonic,
		Passphrase: cfg.Identity.Passphrase,
	}, cfg.Network)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}
