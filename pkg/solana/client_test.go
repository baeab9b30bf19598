package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const payoutAddr = "4fYNw3dojWmQ4dXtSGE9epjRGy9pFSx62YypT7avPYvA"

// rpcFixture serves a canned getTransaction result keyed by signature.
func rpcFixture(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
		}
		if req.Method != "getTransaction" {
			t.Errorf("method = %q, want getTransaction", req.Method)
		}
		sig, _ := req.Params[0].(string)
		result, ok := results[sig]
		if !ok {
			result = "null"
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, result)
	}))
}

func transferTx(destination string, lamports uint64, txErr string) string {
	meta := `{"err":null}`
	if txErr != "" {
		meta = fmt.Sprintf(`{"err":{"InstructionError":[0,%q]}}`, txErr)
	}
	return fmt.Sprintf(`{
		"slot": 12345,
		"blockTime": 1740830400,
		"meta": %s,
		"transaction": {
			"signatures": ["sig"],
			"message": {
				"instructions": [
					{
						"program": "system",
						"programId": "11111111111111111111111111111111",
						"parsed": {
							"type": "transfer",
							"info": {
								"source": "BuyerWallet111111111111111111111111111111111",
								"destination": %q,
								"lamports": %d
							}
						}
					}
				]
			}
		}
	}`, meta, destination, lamports)
}

func newFixtureClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, "confirmed", 2*time.Second)
}

func TestVerifyTransfer(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"sig-ok": transferTx(payoutAddr, 500_000_000, ""),
	})
	defer srv.Close()

	c := newFixtureClient(srv)
	if err := c.VerifyTransfer(context.Background(), "sig-ok", payoutAddr, 500_000_000); err != nil {
		t.Fatalf("VerifyTransfer: %v", err)
	}
}

func TestVerifyTransferAcceptsOverpayment(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"sig-over": transferTx(payoutAddr, 600_000_000, ""),
	})
	defer srv.Close()

	c := newFixtureClient(srv)
	if err := c.VerifyTransfer(context.Background(), "sig-over", payoutAddr, 500_000_000); err != nil {
		t.Fatalf("VerifyTransfer: %v", err)
	}
}

func TestVerifyTransferMismatches(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"sig-underpaid":       transferTx(payoutAddr, 400_000_000, ""),
		"sig-wrong-recipient": transferTx("SomeoneElse1111111111111111111111111111111", 500_000_000, ""),
	})
	defer srv.Close()

	c := newFixtureClient(srv)
	for _, sig := range []string{"sig-underpaid", "sig-wrong-recipient"} {
		if err := c.VerifyTransfer(context.Background(), sig, payoutAddr, 500_000_000); !errors.Is(err, ErrTransferMismatch) {
			t.Errorf("VerifyTransfer(%s) err = %v, want ErrTransferMismatch", sig, err)
		}
	}
}

func TestVerifyTransferFailedTransaction(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"sig-failed": transferTx(payoutAddr, 500_000_000, "Custom"),
	})
	defer srv.Close()

	c := newFixtureClient(srv)
	if err := c.VerifyTransfer(context.Background(), "sig-failed", payoutAddr, 500_000_000); !errors.Is(err, ErrTransactionFailed) {
		t.Fatalf("err = %v, want ErrTransactionFailed", err)
	}
}

func TestVerifyTransferUnknownSignature(t *testing.T) {
	srv := rpcFixture(t, nil)
	defer srv.Close()

	c := newFixtureClient(srv)
	if err := c.VerifyTransfer(context.Background(), "sig-missing", payoutAddr, 1); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("err = %v, want ErrTransactionNotFound", err)
	}
}

func TestConfirmTransaction(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"sig-ok":     transferTx(payoutAddr, 1, ""),
		"sig-failed": transferTx(payoutAddr, 1, "Custom"),
	})
	defer srv.Close()

	c := newFixtureClient(srv)
	if err := c.ConfirmTransaction(context.Background(), "sig-ok"); err != nil {
		t.Errorf("ConfirmTransaction(sig-ok): %v", err)
	}
	if err := c.ConfirmTransaction(context.Background(), "sig-failed"); !errors.Is(err, ErrTransactionFailed) {
		t.Errorf("ConfirmTransaction(sig-failed) err = %v, want ErrTransactionFailed", err)
	}
	if err := c.ConfirmTransaction(context.Background(), "sig-missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("ConfirmTransaction(sig-missing) err = %v, want ErrTransactionNotFound", err)
	}
}

func TestGetTransactionRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid signature"}}`)
	}))
	defer srv.Close()

	c := newFixtureClient(srv)
	_, err := c.GetTransaction(context.Background(), "bad")
	var rpcErr *rpcError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("err = %v, want *rpcError", err)
	}
	if rpcErr.Code != -32602 {
		t.Errorf("code = %d, want -32602", rpcErr.Code)
	}
}

func TestGetTransactionSendsCommitment(t *testing.T) {
	var gotParams []interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotParams = req.Params
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":null}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "finalized", 2*time.Second)
	c.GetTransaction(context.Background(), "sig")

	if len(gotParams) != 2 {
		t.Fatalf("params length = %d, want 2", len(gotParams))
	}
	opts, _ := gotParams[1].(map[string]interface{})
	if opts["commitment"] != "finalized" {
		t.Errorf("commitment = %v, want finalized", opts["commitment"])
	}
	if opts["encoding"] != "jsonParsed" {
		t.Errorf("encoding = %v, want jsonParsed", opts["encoding"])
	}
}
