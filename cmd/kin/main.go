// Kinship daemon and CLI - relationship vitality and suggestions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kinship-hq/kinship/internal/api"
	"github.com/kinship-hq/kinship/internal/config"
	"github.com/kinship-hq/kinship/internal/cooldown"
	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/engine"
	"github.com/kinship-hq/kinship/internal/holidays"
	"github.com/kinship-hq/kinship/internal/rules"
	"github.com/kinship-hq/kinship/internal/scheduler"
	"github.com/kinship-hq/kinship/internal/scoring"
	"github.com/kinship-hq/kinship/internal/storage"
)

var (
	configPath string
	dataDir    string
	port       int

	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kin",
		Short: "Kinship - keep the relationships that matter alive",
		Long: `Kinship watches the rhythm of your relationships, scores their
vitality, and suggests the next small thing worth doing: a call you
have been putting off, a birthday coming up, a plan that needs a
follow-up.

Your data stays in a local database on YOUR machine.`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	return cfg, nil
}

// buildService assembles the suggestion engine from configuration. The
// returned cleanup closes whatever the build opened.
func buildService(cfg *config.Config) (*engine.Service, func(), error) {
	db, err := storage.Open(storage.Config{Path: cfg.DatabasePath()})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	orchestrator, err := engine.NewOrchestrator(rules.Defaults())
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	var registry cooldown.Registry
	cleanup := func() { db.Close() }
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		registry = cooldown.NewRedisRegistry(client)
		cleanup = func() {
			client.Close()
			db.Close()
		}
	} else {
		registry = cooldown.NewStoreRegistry(storage.NewDismissalStore(db))
	}

	svcCfg := engine.DefaultServiceConfig()
	if cfg.Engine.MaxConcurrency > 0 {
		svcCfg.MaxConcurrency = cfg.Engine.MaxConcurrency
	}
	if cfg.Engine.BatchBudgetSecs > 0 {
		svcCfg.BatchBudget = time.Duration(cfg.Engine.BatchBudgetSecs) * time.Second
	}

	return engine.NewService(db, orchestrator, registry, holidays.BuiltIn(), svcCfg), cleanup, nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Kinship daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			service, cleanup, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			server := api.New(api.Config{
				Host:    cfg.Server.Host,
				Port:    cfg.Server.Port,
				Service: service,
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			refresh := scheduler.New(service, server, scheduler.Config{
				Interval: time.Duration(cfg.Engine.RefreshMinutes) * time.Minute,
			})
			if err := refresh.Start(ctx); err != nil {
				return err
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
				<-sigCh

				fmt.Println("\nShutting down...")
				refresh.Stop()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				server.Stop(shutdownCtx)
				cancel()
			}()

			fmt.Printf("Kinship listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
			return server.Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	return cmd
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Print the current suggestion batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			service, cleanup, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			batch, err := service.Generate(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			if len(batch) == 0 {
				fmt.Println("Nothing needs your attention right now.")
				return nil
			}
			for _, s := range batch {
				marker := " "
				if s.Urgency == core.UrgencyCritical {
					marker = "!"
				}
				fmt.Printf("%s [%s] %s\n", marker, s.Urgency, s.Title)
				if s.Subtitle != "" {
					fmt.Printf("     %s\n", s.Subtitle)
				}
			}
			return nil
		},
	}
}

func logCmd() *cobra.Command {
	var (
		with      []string
		category  string
		vibe      int
		duration  string
		initiator string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log an interaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(with) == 0 {
				return fmt.Errorf("at least one --with relationship is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			service, cleanup, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			rels, interactions, _, _ := service.Stores()
			ctx := cmd.Context()

			// Accept either relationship IDs or exact names.
			ids := make([]string, 0, len(with))
			for _, ref := range with {
				id, err := resolveRelationship(ctx, rels, ref)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			in := &core.Interaction{
				ID:           uuid.NewString(),
				Participants: ids,
				Category:     core.InteractionCategory(category),
				Status:       core.StatusCompleted,
				OccurredAt:   time.Now().UTC(),
				Duration:     core.Duration(duration),
				Vibe:         vibe,
				Initiator:    core.Initiator(initiator),
			}
			if err := interactions.Create(ctx, in); err != nil {
				return err
			}
			recorder := scoring.NewRecorder(rels, interactions)
			if err := recorder.Apply(ctx, *in); err != nil {
				return fmt.Errorf("interaction logged but scoring failed: %w", err)
			}

			fmt.Printf("Logged %s with %d relationship(s).\n", category, len(ids))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&with, "with", nil, "relationship ID or name (repeatable)")
	cmd.Flags().StringVar(&category, "category", "hangout", "interaction category")
	cmd.Flags().IntVar(&vibe, "vibe", 0, "how it felt, 1-5 (0 = skip)")
	cmd.Flags().StringVar(&duration, "duration", "", "quick, standard, or extended")
	cmd.Flags().StringVar(&initiator, "initiator", "", "who initiated: self or them")
	return cmd
}

func resolveRelationship(ctx context.Context, rels *storage.RelationshipStore, ref string) (string, error) {
	if _, err := rels.Relationship(ctx, ref); err == nil {
		return ref, nil
	}
	all, err := rels.List(ctx)
	if err != nil {
		return "", err
	}
	for _, rel := range all {
		if rel.Name == ref {
			return rel.ID, nil
		}
	}
	return "", fmt.Errorf("no relationship matches %q", ref)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kin %s\n", version)
		},
	}
}
