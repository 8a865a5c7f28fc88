// Package main is the entry point for the Swara CLI application.
// Swara is a local-first personal assistant that turns natural language
// commands into actions: opening apps, composing messages, searching files,
// and chaining those steps into multi-task workflows.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/agents"
	"github.com/swaralabs/swara/internal/config"
	"github.com/swaralabs/swara/internal/data"
	"github.com/swaralabs/swara/internal/intent"
	"github.com/swaralabs/swara/internal/llm"
	"github.com/swaralabs/swara/internal/logging"
	"github.com/swaralabs/swara/internal/normalize"
	"github.com/swaralabs/swara/internal/orchestrator"
	"github.com/swaralabs/swara/internal/server"
	"github.com/swaralabs/swara/internal/workflow"
)

var (
	version  = "0.1.0"
	cfgPath  string
	verbose  bool
	jsonOut  bool
	listen   string
	reqState string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swara",
		Short: "Swara - voice and text personal assistant",
		Long: `Swara turns natural language commands into actions:
  • Intent classification with keyword rules and an LLM fallback
  • A registry of task agents (whatsapp, email, calendar, files, ...)
  • Multi-task workflows that chain agents and thread data between them
  • Feature requests logged for anything it cannot yet do

One-shot command:   swara run "find ownership document and send to jay on whatsapp"
Interactive mode:   swara repl
HTTP/WebSocket:     swara serve`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.swara/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Swara v%s\n", version)
		},
	})

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(replCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(requestsCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// assistant bundles everything a command needs after wiring.
type assistant struct {
	cfg   *config.Config
	orch  *orchestrator.Orchestrator
	reg   *agent.Registry
	store *data.Store
}

func (a *assistant) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger := logging.Component("main")
			logger.Warn().Err(err).Msg("close store")
		}
	}
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.Setup(level, cfg.Logging.File)
}

// buildAssistant wires the full pipeline: config, LLM client, data store,
// agent registry, planner/executor, classifier, normalizer, orchestrator.
func buildAssistant() (*assistant, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := setupLogging(cfg); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	log := logging.Component("main")

	// The assistant still works without a reachable model: normalization
	// passes commands through and classification runs on keyword rules.
	var completer llm.Completer
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("llm provider unavailable, running rules-only")
	} else {
		completer = llm.NewClient(provider)
	}

	store, err := data.NewDB(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("open data store: %w", err)
	}

	registry, err := buildRegistry(cfg, store, completer)
	if err != nil {
		store.Close()
		return nil, err
	}

	planner := workflow.NewPlanner(completer)
	executor := workflow.NewExecutor(registry)
	classifier := intent.New(planner, completer, intent.WithLLMFallback(cfg.Assistant.LLMFallback))

	var normCompleter llm.Completer
	if cfg.Assistant.Normalization {
		normCompleter = completer
	}
	normalizer := normalize.New(normCompleter)

	orch := orchestrator.New(normalizer, classifier, registry, planner, executor, completer, store)

	log.Info().Int("agents", registry.Len()).Str("provider", cfg.LLM.DefaultProvider).Msg("swara initialized")
	return &assistant{cfg: cfg, orch: orch, reg: registry, store: store}, nil
}

func buildRegistry(cfg *config.Config, store *data.Store, completer llm.Completer) (*agent.Registry, error) {
	contacts := agents.MockContacts()
	opener := agents.OpenInBrowser
	screenshotDir := filepath.Join(cfg.Data.Dir, "screenshots")

	registry := agent.NewRegistry()
	all := []agent.Agent{
		agents.NewWhatsApp(contacts),
		agents.NewEmail(contacts, opener),
		agents.NewCalendar(opener),
		agents.NewPayment(opener),
		agents.NewPhone(contacts, opener),
		agents.NewWebSearch(opener),
		agents.NewAppLauncher(agents.DefaultLauncher, opener),
		agents.NewFileSearch(cfg.Assistant.SearchRoots),
		agents.NewTask(store),
		agents.NewScreenshot(agents.DefaultCapture, screenshotDir),
		agents.NewSystemControl(agents.DefaultRunner),
		agents.NewConversation(completer),
	}
	for _, a := range all {
		if err := registry.Register(a); err != nil {
			return nil, fmt.Errorf("register agent: %w", err)
		}
	}
	return registry, nil
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Process one command and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAssistant()
			if err != nil {
				return err
			}
			defer app.close()

			resp := app.orch.ProcessCommand(cmd.Context(), strings.Join(args, " "))
			return printResponse(resp)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full response envelope as JSON")
	return cmd
}

func printResponse(resp *orchestrator.FinalResponse) error {
	if jsonOut {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(resp.Message)
	if verbose {
		fmt.Printf("  intent=%s agent=%s duration=%dms\n", resp.Intent, resp.AgentUsed, resp.DurationMs)
		if resp.WasEnhanced {
			fmt.Printf("  enhanced: %s\n", resp.EnhancedInput)
		}
	}
	if !resp.Success {
		return fmt.Errorf("command failed")
	}
	return nil
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive command loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAssistant()
			if err != nil {
				return err
			}
			defer app.close()

			// Keep log lines out of the prompt.
			if !verbose {
				logging.Quiet()
			}

			fmt.Printf("Swara v%s - type a command, or 'exit' to quit.\n", version)
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("swara> ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				resp := app.orch.ProcessCommand(cmd.Context(), line)
				fmt.Println(resp.Message)
				if resp.Workflow != nil {
					for _, tr := range resp.Workflow.TaskResults {
						fmt.Printf("  [%d] %s: %s\n", tr.TaskIndex+1, tr.Agent, tr.Result.Message)
					}
				}
			}
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAssistant()
			if err != nil {
				return err
			}
			defer app.close()

			addr := listen
			if addr == "" {
				addr = app.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(addr, app.orch, app.reg)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "addr", "", "listen address (default from config)")
	return cmd
}

func requestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Inspect logged feature requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAssistant()
			if err != nil {
				return err
			}
			defer app.close()
			return listRequests(cmd.Context(), app.store, reqState)
		},
	}
	cmd.PersistentFlags().StringVar(&reqState, "status", "", "filter by status (pending|implemented|rejected)")

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show feature request counts and recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAssistant()
			if err != nil {
				return err
			}
			defer app.close()

			sum, err := app.store.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Total: %d  Pending: %d  Implemented: %d  Rejected: %d\n",
				sum.Total, sum.Pending, sum.Implemented, sum.Rejected)
			for _, r := range sum.Recent {
				fmt.Printf("  #%d [%s] %s (%s)\n", r.ID, r.Status, r.Command, r.Intent)
			}
			return nil
		},
	})

	cmd.AddCommand(setStatusCmd("implement", "Mark a feature request as implemented", data.StatusImplemented))
	cmd.AddCommand(setStatusCmd("reject", "Mark a feature request as rejected", data.StatusRejected))
	return cmd
}

func setStatusCmd(use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}

			app, err := buildAssistant()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.store.SetRequestStatus(cmd.Context(), id, status); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("no feature request with id %d", id)
				}
				return err
			}
			fmt.Printf("Request #%d marked %s.\n", id, status)
			return nil
		},
	}
}

func listRequests(ctx context.Context, store *data.Store, status string) error {
	requests, err := store.ListRequests(ctx, status)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		fmt.Println("No feature requests.")
		return nil
	}
	for _, r := range requests {
		fmt.Printf("#%d  [%s]  %s  (intent: %s, %s)\n",
			r.ID, r.Status, r.Command, r.Intent, r.CreatedAt.Format("2006-01-02 15:04"))
		if r.Reason != "" {
			fmt.Printf("      reason: %s\n", r.Reason)
		}
	}
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Run: func(cmd *cobra.Command, args []string) {
			if cfgPath != "" {
				fmt.Println(cfgPath)
				return
			}
			home, err := os.UserHomeDir()
			if err != nil {
				fmt.Println("~/.swara/config.yaml")
				return
			}
			fmt.Println(filepath.Join(home, ".swara", "config.yaml"))
		},
	})

	return cmd
}
