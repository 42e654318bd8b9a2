package governance

import (
	"context"
	"errors"
	"strings"

	werrors "decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrGenericTxFailure is shown when a failed transaction carries no reason.
const ErrGenericTxFailure = "transaction failed, please try again later"

const revertPrefix = "execution reverted: "

// humanReadableError picks the best message for a failed write: the decoded
// revert reason, then the provider's message, then the generic fallback.
func humanReadableError(err error) string {
	for {
		e, ok := err.(*werrors.Error)
		if !ok || e.Err == nil {
			break
		}
		err = e.Err
	}
	if err == nil {
		return ErrGenericTxFailure
	}

	if reason, ok := revertReason(err); ok {
		return reason
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrGenericTxFailure
	}

	var rpcErr rpc.Error
	msg := err.Error()
	if errors.As(err, &rpcErr) {
		msg = rpcErr.Error()
	}
	if idx := strings.Index(msg, revertPrefix); idx >= 0 {
		msg = msg[idx+len(revertPrefix):]
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ErrGenericTxFailure
	}
	return msg
}

// revertReason decodes an Error(string) payload attached to a JSON-RPC error.
func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return "", false
	}

	hexData, ok := dataErr.ErrorData().(string)
	if !ok {
		return "", false
	}
	data, decodeErr := hexutil.Decode(hexData)
	if decodeErr != nil {
		return "", false
	}
	reason, unpackErr := abi.UnpackRevert(data)
	if unpackErr != nil || reason == "" {
		return "", false
	}
	return reason, true
}
