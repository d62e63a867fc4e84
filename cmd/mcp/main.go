// Command mcp starts the MCP host server core: it wires the tool, prompt
// and resource registries, builds a BasicService, and serves it over
// either stdio or SSE depending on configuration. Grounded on the
// teacher's cmd/mcp/main.go flag + logger wiring, generalized from a
// one-shot CLI request processor into a long-running server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/richard-senior/mcp-core/internal/config"
	"github.com/richard-senior/mcp-core/internal/logger"
	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/prompts"
	"github.com/richard-senior/mcp-core/pkg/resources"
	"github.com/richard-senior/mcp-core/pkg/service"
	"github.com/richard-senior/mcp-core/pkg/tools"
	"github.com/richard-senior/mcp-core/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file (default ./mcp.yaml)")
	transportFlag := flag.String("transport", "", "Transport to serve on: stdio or sse (overrides config)")
	debug := flag.Bool("debug", false, "Add date and time to log lines (the log level is not changed)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration: %v", err)
	}
	if *transportFlag != "" {
		cfg.Transport = config.Transport(*transportFlag)
	}
	if *debug || cfg.Debug {
		logger.SetShowDateTime(true)
	}

	// Stdout is reserved for protocol frames under stdio; route logging to
	// stderr there, console elsewhere.
	if cfg.Transport == config.TransportSSE {
		logger.SetLogOutput('c')
	} else {
		logger.SetLogOutput('e')
	}

	toolReg := tools.NewRegistry()
	for _, build := range []func() (tools.Tool, error){
		tools.EchoTool,
		tools.CalculatorTool,
		tools.FetchPageMarkdownTool,
	} {
		t, err := build()
		if err != nil {
			logger.Fatal("failed to build tool: %v", err)
		}
		toolReg.Register(t)
	}

	promptReg := prompts.NewRegistry()
	for _, build := range []func() (prompts.Prompt, error){
		prompts.CodeReviewPrompt,
		prompts.ExplainConceptPrompt,
	} {
		p, err := build()
		if err != nil {
			logger.Fatal("failed to build prompt: %v", err)
		}
		promptReg.Register(p)
	}

	resourceReg := resources.NewRegistry()

	historyResource, _, err := resources.NewHistoryResource()
	if err != nil {
		logger.Fatal("failed to build history resource: %v", err)
	}
	resourceReg.RegisterFixed(historyResource)

	store, err := resources.OpenSQLiteResource(cfg.SQLitePath)
	if err != nil {
		logger.Fatal("failed to open sqlite document store at %s: %v", cfg.SQLitePath, err)
	}
	defer store.Close()

	docTemplate, err := resources.NewDocumentTemplateResource(store)
	if err != nil {
		logger.Fatal("failed to build document template resource: %v", err)
	}
	if err := resourceReg.RegisterTemplate(docTemplate); err != nil {
		logger.Fatal("failed to register document template resource: %v", err)
	}

	svc := service.New(cfg.Name, cfg.Version, cfg.Instructions, toolReg, promptReg, resourceReg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportSSE:
		serveSSE(ctx, svc, cfg)
	default:
		serveStdio(ctx, svc)
	}
}

func serveStdio(ctx context.Context, svc *service.BasicService) {
	t := transport.NewStdio(svc, handler.NoState{}, os.Stdin, os.Stdout)
	svc.SetNotifySink(t.NotifySink)

	logger.Info("mcp-core serving on stdio")
	if err := t.Serve(ctx); err != nil {
		logger.Fatal("stdio transport exited with error: %v", err)
	}
	logger.Info("mcp-core stdio transport shut down cleanly")
}

func serveSSE(ctx context.Context, svc *service.BasicService, cfg config.Config) {
	keepAlive := time.Duration(cfg.SSE.KeepAliveSeconds) * time.Second
	t := transport.NewSSE(svc, handler.NoState{}, cfg.SSE.BroadcastCapacity, keepAlive)
	svc.SetNotifySink(t.NotifySink)

	srv := &http.Server{Addr: cfg.SSE.Addr, Handler: t.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down SSE server: %v", err)
		}
	}()

	logger.Info("mcp-core serving SSE on %s", cfg.SSE.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("SSE transport exited with error: %v", err)
	}
	logger.Info("mcp-core SSE transport shut down cleanly")
}
