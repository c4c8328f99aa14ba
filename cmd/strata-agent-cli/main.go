// strata-agent-cli is a command-line client for a running strata-agentd.
//
// Usage:
//
//	strata-agent-cli [--rpc URL] <command> [args]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/strata-agent/internal/rpc"
	"github.com/Klingon-tech/strata-agent/internal/rpcclient"
	"github.com/Klingon-tech/strata-agent/internal/stacking"
)

func main() {
	rpcURL := "http://127.0.0.1:8740"

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
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

	client := rpcclient.New(rpcURL)
	cmd, cmdArgs := args[0], args[1:]

	switch cmd {
	case "identity":
		cmdIdentity(client)
	case "balance":
		cmdBalance(client, cmdArgs)
	case "info":
		cmdInfo(client)
	case "send":
		cmdSend(client, cmdArgs)
	case "call":
		cmdCall(client, cmdArgs)
	case "read":
		cmdRead(client, cmdArgs)
	case "send-token":
		cmdSendToken(client, cmdArgs)
	case "send-nft":
		cmdSendNFT(client, cmdArgs)
	case "delegate":
		cmdDelegate(client, cmdArgs)
	case "eligibility":
		cmdEligibility(client, cmdArgs)
	default:
		usage()
		os.Exit(1)
	}
}

func cmdIdentity(client *rpcclient.Client) {
	var res rpc.IdentityResult
	call(client, "wallet_getIdentity", nil, &res)
	printJSON(res)
}

func cmdBalance(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("usage: balance <address>")
	}
	var res rpc.BalanceResult
	call(client, "query_getBalance", rpc.AddressParam{Address: args[0]}, &res)
	printJSON(res)
}

func cmdInfo(client *rpcclient.Client) {
	var res rpc.NetworkInfoResult
	call(client, "query_getNetworkInfo", struct{}{}, &res)
	printJSON(res)
}

func cmdSend(client *rpcclient.Client, args []string) {
	if len(args) < 2 {
		fatal("usage: send <recipient> <amount-STR> [memo]")
	}
	params := rpc.TransferParams{Recipient: args[0], Amount: args[1]}
	if len(args) > 2 {
		params.Memo = args[2]
	}
	var res rpc.SubmitResult
	call(client, "tx_transfer", params, &res)
	printSubmit(res)
}

func cmdCall(client *rpcclient.Client, args []string) {
	if len(args) < 2 {
		fatal("usage: call <contract> <function> [hex-arg ...]")
	}
	var res rpc.SubmitResult
	call(client, "tx_contractCall", rpc.ContractCallParams{
		Contract:  args[0],
		Function:  args[1],
		Arguments: args[2:],
	}, &res)
	printSubmit(res)
}

func cmdRead(client *rpcclient.Client, args []string) {
	if len(args) < 2 {
		fatal("usage: read <contract> <function> [hex-arg ...]")
	}
	var res rpc.ReadOnlyResult
	call(client, "query_callReadOnly", rpc.ContractCallParams{
		Contract:  args[0],
		Function:  args[1],
		Arguments: args[2:],
	}, &res)
	printJSON(res)
}

func cmdSendToken(client *rpcclient.Client, args []string) {
	if len(args) < 4 {
		fatal("usage: send-token <contract> <asset> <amount-micro> <recipient> [memo]")
	}
	amount := parseUint(args[2], "amount-micro")
	params := rpc.TokenTransferParams{
		Contract:    args[0],
		Asset:       args[1],
		AmountMicro: amount,
		Recipient:   args[3],
	}
	if len(args) > 4 {
		params.Memo = args[4]
	}
	var res rpc.SubmitResult
	call(client, "tx_transferToken", params, &res)
	printSubmit(res)
}

func cmdSendNFT(client *rpcclient.Client, args []string) {
	if len(args) < 4 {
		fatal("usage: send-nft <contract> <asset> <token-id> <recipient>")
	}
	tokenID := parseUint(args[2], "token-id")
	var res rpc.SubmitResult
	call(client, "tx_transferNFT", rpc.NFTTransferParams{
		Contract:  args[0],
		Asset:     args[1],
		TokenID:   tokenID,
		Recipient: args[3],
	}, &res)
	printSubmit(res)
}

func cmdDelegate(client *rpcclient.Client, args []string) {
	if len(args) < 3 {
		fatal("usage: delegate <amount-micro> <cycles> <reward-address>")
	}
	var res rpc.SubmitResult
	call(client, "stack_delegate", delegateParams(args), &res)
	printSubmit(res)
}

func cmdEligibility(client *rpcclient.Client, args []string) {
	if len(args) < 3 {
		fatal("usage: eligibility <amount-micro> <cycles> <reward-address>")
	}
	var report stacking.Report
	call(client, "stack_checkEligibility", delegateParams(args), &report)
	printJSON(report)
}

func delegateParams(args []string) rpc.DelegateParams {
	return rpc.DelegateParams{
		AmountMicro:   parseUint(args[0], "amount-micro"),
		Cycles:        uint32(parseUint(args[1], "cycles")),
		RewardAddress: args[2],
	}
}

func call(client *rpcclient.Client, method string, params, result interface{}) {
	if err := client.Call(method, params, result); err != nil {
		fatal("%v", err)
	}
}

func printSubmit(res rpc.SubmitResult) {
	if res.Accepted {
		fmt.Printf("Accepted: %s\n", res.TxID)
		if res.ExplorerURL != "" {
			fmt.Printf("Explorer: %s\n", res.ExplorerURL)
		}
	} else {
		fmt.Printf("Rejected: %s\n", res.Reason)
	}
	fmt.Printf("Nonce: %d  Fee: %d microSTR\n", res.Nonce, res.FeeMicro)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("encode output: %v", err)
	}
	fmt.Println(string(data))
}

func parseUint(s, field string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fatal("invalid %s %q", field, s)
	}
	return v
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprint(os.Stderr, `strata-agent-cli - client for a running strata-agentd

Usage:
  strata-agent-cli [--rpc URL] <command> [args]

Commands:
  identity                                        Show the agent identity
  balance <address>                               Account balance and nonce
  info                                            Node and network status
  send <recipient> <amount-STR> [memo]            Transfer STR
  call <contract> <function> [hex-arg ...]        Contract call transaction
  read <contract> <function> [hex-arg ...]        Read-only contract call
  send-token <contract> <asset> <amt> <recip> [memo]  Fungible token transfer
  send-nft <contract> <asset> <id> <recip>        NFT transfer
  delegate <amount-micro> <cycles> <reward>       Stake delegation
  eligibility <amount-micro> <cycles> <reward>    Delegation pre-check

Flags:
  --rpc <url>   Tool server URL (default http://127.0.0.1:8740)
`)
}
