package solana

import (
	"apec_lms_backend/pkg/monitoring"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found on ledger")
	ErrTransactionFailed   = errors.New("transaction failed on ledger")
	ErrTransferMismatch    = errors.New("transaction does not transfer the expected amount to the expected recipient")
)

// Client is a minimal JSON-RPC client for the Solana HTTP API. It only
// implements the read path the backend needs: resolving a transaction
// signature and checking the transfer it carries. Transaction construction
// and signing stay in the caller's wallet.
type Client struct {
	url        string
	commitment string
	httpClient *http.Client
	reqID      uint64
}

func NewClient(rpcURL, commitment string, timeout time.Duration) *Client {
	if commitment == "" {
		commitment = "confirmed"
	}
	return &Client{
		url:        rpcURL,
		commitment: commitment,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	start := time.Now()
	err := c.doCall(ctx, method, params, result)
	monitoring.ObserveLedgerCall(method, start, err)
	return err
}

func (c *Client) doCall(ctx context.Context, method string, params []interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.reqID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc http status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return err
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(rpcResp.Result, result)
}

// TransactionResult is the jsonParsed shape of getTransaction, trimmed to the
// fields the verification path reads.
type TransactionResult struct {
	Slot        uint64           `json:"slot"`
	BlockTime   *int64           `json:"blockTime"`
	Meta        *TransactionMeta `json:"meta"`
	Transaction struct {
		Signatures []string `json:"signatures"`
		Message    struct {
			Instructions []ParsedInstruction `json:"instructions"`
		} `json:"message"`
	} `json:"transaction"`
}

type TransactionMeta struct {
	Err interface{} `json:"err"`
}

type ParsedInstruction struct {
	Program   string `json:"program"`
	ProgramID string `json:"programId"`
	Parsed    struct {
		Type string `json:"type"`
		Info struct {
			Source      string `json:"source"`
			Destination string `json:"destination"`
			Lamports    uint64 `json:"lamports"`
		} `json:"info"`
	} `json:"parsed"`
}

// GetTransaction resolves a confirmed transaction by signature. A nil result
// from the RPC node maps to ErrTransactionNotFound.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*TransactionResult, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"commitment":                     c.commitment,
			"maxSupportedTransactionVersion": 0,
		},
	}

	var raw json.RawMessage
	if err := c.call(ctx, "getTransaction", params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrTransactionNotFound
	}

	var tx TransactionResult
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ConfirmTransaction checks that the signature resolves to a transaction that
// executed without error.
func (c *Client) ConfirmTransaction(ctx context.Context, signature string) error {
	tx, err := c.GetTransaction(ctx, signature)
	if err != nil {
		return err
	}
	if tx.Meta != nil && tx.Meta.Err != nil {
		return ErrTransactionFailed
	}
	return nil
}

// VerifyTransfer checks that the referenced transaction executed successfully
// AND carries a system transfer of at least lamports to recipient. Checking
// only that the signature exists would let any unrelated transaction pay for
// any course.
func (c *Client) VerifyTransfer(ctx context.Context, signature, recipient string, lamports uint64) error {
	tx, err := c.GetTransaction(ctx, signature)
	if err != nil {
		return err
	}
	if tx.Meta != nil && tx.Meta.Err != nil {
		return ErrTransactionFailed
	}

	for _, ins := range tx.Transaction.Message.Instructions {
		if ins.Parsed.Type != "transfer" {
			continue
		}
		if ins.Parsed.Info.Destination == recipient && ins.Parsed.Info.Lamports >= lamports {
			return nil
		}
	}
	return ErrTransferMismatch
}

// SOLToLamports converts a SOL-denominated price to lamports.
func SOLToLamports(sol float64) uint64 {
	return uint64(math.Round(sol * LamportsPerSOL))
}
