package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// 明細APIに届かない・壊れたJSONなど。リトライ可能な失敗として扱う。
var ErrUnavailable = errors.New("bank statement feed unavailable")

// 銀行明細の1件。creditAmountは文字列で来るのでdecimalで受ける
// （floatだと金額の完全一致比較が壊れる）。
type StatementEntry struct {
	PostDate        string          `json:"postDate"`
	TransactionDate string          `json:"transactionDate"`
	AccountNumber   string          `json:"accountNumber"`
	CreditAmount    decimal.Decimal `json:"creditAmount"`
	DebitAmount     decimal.Decimal `json:"debitAmount"`
	TransactionDesc string          `json:"transactionDesc"`
	RefNo           string          `json:"refNo"`
	Type            string          `json:"type"`
}

// 明細フィードの読み取り専用クライアントの約束
type Client interface {
	RecentStatements(ctx context.Context) ([]StatementEntry, error)
}

type httpClient struct {
	url    string
	client *http.Client
}

// DI
func NewHTTPClient(url string, timeout time.Duration) Client {
	return &httpClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// RecentStatements は直近の入金明細を取得する。
func (c *httpClient) RecentStatements(ctx context.Context) ([]StatementEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var entries []StatementEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return entries, nil
}
