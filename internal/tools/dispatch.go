package tools

import (
	"context"
	"fmt"

	gwerr "github.com/ggonzalez94/agent-gateway/internal/errors"
	"github.com/ggonzalez94/agent-gateway/internal/model"
)

// Supported task identifiers. The dispatch switch below is the closed set;
// anything else is an unknown_task client error.
const (
	TaskSummarize   = "summarize"
	TaskGetPosition = "morpho_get_position"
)

// Request is the generic `{task, ...params}` tool invocation body. Text is a
// pointer so a present-but-empty string stays distinguishable from an absent
// parameter.
type Request struct {
	Task   string  `json:"task"`
	Text   *string `json:"text,omitempty"`
	Wallet string  `json:"wallet,omitempty"`
	PoolID string  `json:"pool_id,omitempty"`
}

// PositionResolver is the slice of the resolver the dispatcher needs.
type PositionResolver interface {
	Resolve(ctx context.Context, wallet, poolID string) (model.PositionRecord, error)
}

type Dispatcher struct {
	resolver PositionResolver
}

func NewDispatcher(resolver PositionResolver) *Dispatcher {
	return &Dispatcher{resolver: resolver}
}

// Dispatch routes a request to its handler and returns the raw tool result.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (any, error) {
	switch req.Task {
	case "":
		return nil, gwerr.New(gwerr.CodeMissingParameter, "no task specified")
	case TaskSummarize:
		if req.Text == nil {
			return nil, gwerr.New(gwerr.CodeMissingParameter, "missing text")
		}
		// Identity stub: echoes the input unchanged.
		return model.SummaryResult{Summary: *req.Text}, nil
	case TaskGetPosition:
		if req.Wallet == "" || req.PoolID == "" {
			return nil, gwerr.New(gwerr.CodeMissingParameter, "missing wallet or pool_id")
		}
		return d.resolver.Resolve(ctx, req.Wallet, req.PoolID)
	default:
		return nil, gwerr.New(gwerr.CodeUnknownTask, fmt.Sprintf("unknown task: %s", req.Task))
	}
}
