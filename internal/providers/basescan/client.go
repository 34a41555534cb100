package basescan

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gwerr "github.com/ggonzalez94/agent-gateway/internal/errors"
	"github.com/ggonzalez94/agent-gateway/internal/httpx"
	"github.com/ggonzalez94/agent-gateway/internal/registry"
)

// Client talks to the Basescan contract API. The key is account-scoped and
// supplied through configuration, never hardcoded.
type Client struct {
	http    *httpx.Client
	apiBase string
	apiKey  string
}

func New(httpClient *httpx.Client, apiKey string) *Client {
	return &Client{
		http:    httpClient,
		apiBase: registry.BasescanAPIBaseURL,
		apiKey:  apiKey,
	}
}

type sourceCodeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  []struct {
		SourceCode   string `json:"SourceCode"`
		ContractName string `json:"ContractName"`
	} `json:"result"`
}

// ContractVerification is the outcome of a getsourcecode probe.
type ContractVerification struct {
	Address      string
	Verified     bool
	ContractName string
}

// VerifyContract asks Basescan whether the contract at address has verified
// source published.
func (c *Client) VerifyContract(ctx context.Context, address string) (ContractVerification, error) {
	query := url.Values{}
	query.Set("module", "contract")
	query.Set("action", "getsourcecode")
	query.Set("address", address)
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}

	var resp sourceCodeResponse
	if _, err := httpx.GetJSON(ctx, c.http, c.apiBase+"?"+query.Encode(), nil, &resp); err != nil {
		return ContractVerification{}, err
	}
	if resp.Status != "1" || len(resp.Result) == 0 {
		return ContractVerification{}, gwerr.New(gwerr.CodeUnavailable, fmt.Sprintf("basescan rejected request: %s", resp.Message))
	}

	entry := resp.Result[0]
	return ContractVerification{
		Address:      address,
		Verified:     strings.TrimSpace(entry.SourceCode) != "",
		ContractName: entry.ContractName,
	}, nil
}
