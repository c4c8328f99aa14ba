package query

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Klingon-tech/strata-agent/pkg/cvalue"
	"github.com/Klingon-tech/strata-agent/pkg/tx"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// readOnlyRequest is the body of a read-only contract call.
type readOnlyRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"` // hex-encoded values
}

// readOnlyResponse is the node's read-only call result envelope.
type readOnlyResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result,omitempty"` // hex-encoded value when okay
	Cause  string `json:"cause,omitempty"`  // failure reason otherwise
}

// CallError reports a read-only call the node evaluated but rejected.
type CallError struct {
	Cause string
}

func (e *CallError) Error() string {
	return "read-only call failed: " + e.Cause
}

// CallReadOnly evaluates a read-only contract function on the node and
// decodes the returned value. The sender address only scopes the
// evaluation; nothing is signed or broadcast.
func (c *Client) CallReadOnly(ctx context.Context, contract tx.ContractID, function string, args []cvalue.Value, sender types.Address, net types.Network) (*cvalue.Value, error) {
	encodedArgs := make([]string, len(args))
	for i, a := range args {
		encodedArgs[i] = a.EncodeHex()
	}

	path := fmt.Sprintf("/v2/contracts/call-read/%s/%s/%s",
		url.PathEscape(contract.Address.Encode(net)),
		url.PathEscape(contract.Name),
		url.PathEscape(function),
	)

	var resp readOnlyResponse
	err := c.post(ctx, path, readOnlyRequest{
		Sender:    sender.Encode(net),
		Arguments: encodedArgs,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", contract.Name, function, err)
	}

	if !resp.Okay {
		return nil, &CallError{Cause: resp.Cause}
	}

	value, err := cvalue.DecodeHex(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: decode result: %w", contract.Name, function, err)
	}
	return &value, nil
}
