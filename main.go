package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/ikbalkahhori/bright-path-sub000/appconfig"
	"github.com/ikbalkahhori/bright-path-sub000/assistant"
	"github.com/ikbalkahhori/bright-path-sub000/llm"
	"github.com/ikbalkahhori/bright-path-sub000/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(getCancellableContext()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, provider, model string

	cmd := &cobra.Command{
		Use:          "bright-path-assistant",
		Short:        "Chat with the Bright Path study-abroad assistant",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dotenv.LoadEnv()

			ccfgg := &appconfig.AppConfig{}
			if err := config.LoadConfig(configPath, ccfgg); err != nil {
				logger.Fatal("Failed to load config", zap.Error(err))
			}
			if provider != "" {
				ccfgg.LLMProvider = provider
			}
			if model != "" {
				ccfgg.LLMModel = model
			}

			manager, err := buildSessionManager(cmd.Context(), ccfgg)
			if err != nil {
				return err
			}

			return newConsole(manager, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.ini", "path to the ini config file")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: anthropic, openai, groq or ollama")
	cmd.Flags().StringVar(&model, "model", "", "model name, overrides llm_model")

	return cmd
}

func buildSessionManager(ctx context.Context, ccfgg *appconfig.AppConfig) (*assistant.SessionManager, error) {
	client, err := llm.NewClient(ccfgg.LLMProvider, ccfgg.LLMModel, ccfgg.OpenAIBaseURL)
	if err != nil {
		logger.Error("Failed to create LLM client", zap.String("provider", ccfgg.LLMProvider), zap.Error(err))
		return nil, err
	}

	builder := assistant.NewSessionManagerBuilder().
		WithLLMClient(llm.NewRateLimitedClient(client, ccfgg.RequestsPerSecond, ccfgg.RequestBurst)).
		WithConfig(ccfgg.AssistantConfig()).
		AddObserver(assistant.LoggingObserver{})

	if ccfgg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		builder.AddObserver(assistant.NewMetricsObserver(reg))
		serveMetrics(ctx, ccfgg.MetricsAddr, reg)
	}

	if ccfgg.ArchiveTenant != "" {
		// exits through logger.Fatal when MONGO_URI is unset or unreachable
		mongoClient := odm.ProvideMongoClient()
		collection := odm.CollectionOf[memory.ConversationRecord](mongoClient, ccfgg.ArchiveTenant)
		builder.WithArchive(memory.NewConversationArchive(collection, ccfgg.ArchiveMaxExchanges))
	}

	manager, err := builder.Build(ctx)
	if err != nil {
		logger.Error("Failed to start assistant", zap.Error(err))
		return nil, err
	}

	logger.Info("Assistant ready",
		zap.String("provider", ccfgg.LLMProvider),
		zap.String("model", client.GetModel()),
		zap.String("sessionId", manager.SessionID()))
	return manager, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
