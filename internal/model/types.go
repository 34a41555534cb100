package model

// PositionSource tags where a resolved position came from. The resolver
// degrades chain > mock > empty and callers branch on this tag.
type PositionSource string

const (
	SourceChain PositionSource = "chain"
	SourceMock  PositionSource = "mock"
	SourceEmpty PositionSource = "empty"
)

// PositionRecord is a wallet's balances within a single Morpho Blue market.
// Share amounts mirror uint256 on-chain values and are rendered as decimal
// strings to avoid precision loss.
type PositionRecord struct {
	Wallet       string         `json:"wallet"`
	PoolID       string         `json:"pool_id"`
	MarketID     string         `json:"market_id"`
	SupplyShares string         `json:"supply_shares"`
	BorrowShares string         `json:"borrow_shares"`
	Collateral   string         `json:"collateral"`
	Source       PositionSource `json:"source"`
}

// SummaryResult is the summarize tool's response. The tool is an identity
// stub: the summary is the input text unchanged.
type SummaryResult struct {
	Summary string `json:"summary"`
}

// ToolInfo describes one dispatchable task for the capability descriptor.
type ToolInfo struct {
	Task        string      `json:"task"`
	Description string      `json:"description"`
	Params      []ToolParam `json:"params"`
}

type ToolParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type FilesResponse struct {
	Files []string `json:"files"`
}

type ToolsResponse struct {
	Tools []ToolInfo `json:"tools"`
}

// WSReply is the frame written back for every inbound WebSocket text message.
// Message holds the parsed JSON on success and a detail string on error.
type WSReply struct {
	Status  string `json:"status"`
	Message any    `json:"message"`
}
