package tools

import "github.com/ggonzalez94/agent-gateway/internal/model"

// Catalog is the static capability descriptor served on GET /tools.
func Catalog() []model.ToolInfo {
	return []model.ToolInfo{
		{
			Task:        TaskSummarize,
			Description: "Echo the given text back as its own summary",
			Params: []model.ToolParam{
				{Name: "text", Type: "string", Required: true, Description: "Text to summarize"},
			},
		},
		{
			Task:        TaskGetPosition,
			Description: "Look up a wallet's position in a Morpho Blue market on Base",
			Params: []model.ToolParam{
				{Name: "wallet", Type: "string", Required: true, Description: "EVM wallet address"},
				{Name: "pool_id", Type: "string", Required: true, Description: "Market pair, e.g. cbBTC/USDC"},
			},
		},
	}
}
