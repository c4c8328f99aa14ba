// strata-wallet manages encrypted identity files for the agent.
//
// Usage:
//
//	strata-wallet [--datadir D --network N] new <name>      Generate a mnemonic identity
//	strata-wallet [...] import <name>                       Import a secret or mnemonic
//	strata-wallet [...] list                                List stored identities
//	strata-wallet [...] show <name>                         Show network and address
//	strata-wallet [...] delete <name>                       Remove an identity file
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Klingon-tech/strata-agent/config"
	"github.com/Klingon-tech/strata-agent/internal/wallet"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

func main() {
	dataDir := config.DefaultDataDir()
	network := "mainnet"

	// Scan for global flags before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	net, err := types.ParseNetwork(network)
	if err != nil {
		fatal("%v", err)
	}

	ks, err := wallet.NewKeystore(filepath.Join(dataDir, network, "keystore"))
	if err != nil {
		fatal("open keystore: %v", err)
	}

	cmd, cmdArgs := args[0], args[1:]
	switch cmd {
	case "new":
		cmdNew(ks, net, cmdArgs)
	case "import":
		cmdImport(ks, net, cmdArgs)
	case "list":
		cmdList(ks)
	case "show":
		cmdShow(ks, cmdArgs)
	case "delete":
		cmdDelete(ks, cmdArgs)
	default:
		usage()
		os.Exit(1)
	}
}

func cmdNew(ks *wallet.Keystore, net types.Network, args []string) {
	name := requireName(args)

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	id, err := wallet.Resolve(wallet.Source{Mnemonic: mnemonic}, net)
	if err != nil {
		fatal("%v", err)
	}
	defer id.Zero()

	pass := newPassphrase()
	if err := ks.Save(name, id, pass, wallet.DefaultKDFParams()); err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Created identity %q\n", name)
	fmt.Printf("Address: %s\n\n", id.AddressString())
	fmt.Println("Recovery phrase (write it down, it is shown once):")
	fmt.Printf("\n  %s\n\n", mnemonic)
}

func cmdImport(ks *wallet.Keystore, net types.Network, args []string) {
	name := requireName(args)

	fmt.Fprint(os.Stderr, "Paste a hex secret or a mnemonic phrase: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		fatal("read input: %v", err)
	}
	input := strings.TrimSpace(line)

	src := wallet.Source{Secret: input}
	if strings.Contains(input, " ") {
		src = wallet.Source{Mnemonic: input}
	}

	id, err := wallet.Resolve(src, net)
	if err != nil {
		fatal("%v", err)
	}
	defer id.Zero()

	pass := newPassphrase()
	if err := ks.Save(name, id, pass, wallet.DefaultKDFParams()); err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Imported identity %q\n", name)
	fmt.Printf("Address: %s\n", id.AddressString())
}

func cmdList(ks *wallet.Keystore) {
	names, err := ks.List()
	if err != nil {
		fatal("%v", err)
	}
	if len(names) == 0 {
		fmt.Println("No identities stored.")
		return
	}
	for _, name := range names {
		net, addr, err := ks.Describe(name)
		if err != nil {
			fmt.Printf("%-20s (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("%-20s %-8s %s\n", name, net, addr)
	}
}

func cmdShow(ks *wallet.Keystore, args []string) {
	name := requireName(args)
	net, addr, err := ks.Describe(name)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Name:    %s\n", name)
	fmt.Printf("Network: %s\n", net)
	fmt.Printf("Address: %s\n", addr)
}

func cmdDelete(ks *wallet.Keystore, args []string) {
	name := requireName(args)

	fmt.Fprintf(os.Stderr, "Delete identity %q? This cannot be undone. [y/N] ", name)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(line)) != "y" {
		fmt.Println("Aborted.")
		return
	}

	if err := ks.Delete(name); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Deleted identity %q\n", name)
}

// newPassphrase prompts twice and insists the entries match.
func newPassphrase() []byte {
	for {
		first, err := readPassword("New passphrase: ")
		if err != nil {
			fatal("read passphrase: %v", err)
		}
		second, err := readPassword("Repeat passphrase: ")
		if err != nil {
			fatal("read passphrase: %v", err)
		}
		if string(first) == string(second) {
			return first
		}
		fmt.Fprintln(os.Stderr, "Passphrases do not match, try again.")
	}
}

func requireName(args []string) string {
	if len(args) < 1 || args[0] == "" {
		usage()
		os.Exit(1)
	}
	return args[0]
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

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprint(os.Stderr, `strata-wallet - manage encrypted agent identities

Usage:
  strata-wallet [--datadir D --network N] <command> [args]

Commands:
  new <name>      Generate a mnemonic identity and store it encrypted
  import <name>   Import a hex secret or mnemonic phrase
  list            List stored identities
  show <name>     Show an identity's network and address
  delete <name>   Remove an identity file

Global flags:
  --datadir <path>   Data directory (default ~/.strata-agent)
  --network <name>   mainnet, testnet, or devnet (default mainnet)
`)
}
