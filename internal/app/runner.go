package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ggonzalez94/agent-gateway/internal/chain"
	"github.com/ggonzalez94/agent-gateway/internal/config"
	gwerr "github.com/ggonzalez94/agent-gateway/internal/errors"
	"github.com/ggonzalez94/agent-gateway/internal/httpx"
	"github.com/ggonzalez94/agent-gateway/internal/model"
	"github.com/ggonzalez94/agent-gateway/internal/position"
	"github.com/ggonzalez94/agent-gateway/internal/providers/basescan"
	"github.com/ggonzalez94/agent-gateway/internal/server"
	"github.com/ggonzalez94/agent-gateway/internal/tools"
	"github.com/ggonzalez94/agent-gateway/internal/version"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{stdout: stdout, stderr: stderr}
}

type runtimeState struct {
	runner   *Runner
	flags    config.GlobalFlags
	settings config.Settings
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintf(r.stderr, "error: %v\n", err)
		if gwErr, ok := gwerr.As(err); ok {
			return int(gwErr.Code)
		}
		return int(gwerr.CodeInternal)
	}
	return 0
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.Name,
		Short: "HTTP/WebSocket gateway exposing agent tools",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return gwerr.Wrap(gwerr.CodeUsage, "load configuration", err)
			}
			s.settings = settings
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.flags.ConfigPath, "config", "", "path to config.yaml")
	flags.StringVar(&s.flags.Listen, "listen", "", "listen address (default :8080)")
	flags.StringVar(&s.flags.PublicDir, "public-dir", "", "directory of served static assets")
	flags.StringVar(&s.flags.RPCURL, "rpc-url", "", "EVM RPC endpoint override")
	flags.StringVar(&s.flags.LensAddress, "lens-address", "", "Morpho lens contract address override")
	flags.StringVar(&s.flags.Timeout, "timeout", "", "outbound call timeout, e.g. 5s")
	flags.StringVar(&s.flags.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(s.newServeCommand())
	cmd.AddCommand(s.newToolsCommand())
	cmd.AddCommand(s.newVersionCommand())
	return cmd
}

func (s *runtimeState) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runServe(cmd.Context())
		},
	}
}

func (s *runtimeState) newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool capability descriptor as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(s.runner.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(model.ToolsResponse{Tools: tools.Catalog()})
		},
	}
}

func (s *runtimeState) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(s.runner.stdout, version.Long())
			return err
		},
	}
}

func (s *runtimeState) runServe(parent context.Context) error {
	settings := s.settings

	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		return gwerr.Wrap(gwerr.CodeUsage, "build logger", err)
	}
	defer func() { _ = logger.Sync() }()

	if !common.IsHexAddress(settings.LensAddress) {
		return gwerr.New(gwerr.CodeUsage, fmt.Sprintf("invalid lens address: %s", settings.LensAddress))
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Live chain access is best-effort: without it the resolver degrades to
	// mock/empty records instead of refusing to start.
	var reader chain.PositionReader
	dialCtx, cancel := context.WithTimeout(ctx, settings.Timeout)
	client, err := ethclient.DialContext(dialCtx, settings.RPCURL)
	if err != nil {
		logger.Warn("rpc dial failed, positions served from mock data",
			zap.String("rpc_url", settings.RPCURL), zap.Error(err))
	} else {
		defer client.Close()
		if chainID, err := client.ChainID(dialCtx); err != nil {
			logger.Warn("rpc reachable but chain id probe failed", zap.Error(err))
		} else {
			logger.Info("connected to chain", zap.String("chain_id", chainID.String()))
		}
		r, err := chain.NewReader(client, common.HexToAddress(settings.LensAddress))
		if err != nil {
			cancel()
			return err
		}
		reader = r
	}
	cancel()

	if settings.BasescanAPIKey != "" {
		s.verifyLensContract(ctx, settings, logger)
	}

	resolver := position.NewResolver(reader, position.NewMockStore(), logger)
	dispatcher := tools.NewDispatcher(resolver)
	srv := server.New(server.Options{
		Listen:      settings.Listen,
		PublicDir:   settings.PublicDir,
		ToolTimeout: settings.Timeout,
	}, dispatcher, logger)

	return srv.Run(ctx)
}

// verifyLensContract asks Basescan whether the lens has verified source.
// Purely informational: the probe never blocks startup.
func (s *runtimeState) verifyLensContract(ctx context.Context, settings config.Settings, logger *zap.Logger) {
	probeCtx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	client := basescan.New(httpx.New(settings.Timeout, settings.Retries), settings.BasescanAPIKey)
	verification, err := client.VerifyContract(probeCtx, settings.LensAddress)
	if err != nil {
		logger.Warn("basescan verification probe failed", zap.Error(err))
		return
	}
	if verification.Verified {
		logger.Info("lens contract has verified source",
			zap.String("address", verification.Address),
			zap.String("contract", verification.ContractName))
		return
	}
	logger.Warn("lens contract source is not verified on basescan",
		zap.String("address", verification.Address))
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	return cfg.Build()
}
