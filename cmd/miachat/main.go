package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/miachat/miachat/internal/profile"
	"github.com/miachat/miachat/plugin/ai"
	"github.com/miachat/miachat/plugin/chat"
	"github.com/miachat/miachat/server"
	apiv1 "github.com/miachat/miachat/server/router/api/v1"
	"github.com/miachat/miachat/store"
	"github.com/miachat/miachat/store/db"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "miachat",
	Short: "Retrieval-augmented HSK tutoring chat server",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:                viper.GetString("mode"),
			Addr:                viper.GetString("addr"),
			Port:                viper.GetInt("port"),
			Data:                viper.GetString("data"),
			Driver:              viper.GetString("driver"),
			DSN:                 viper.GetString("dsn"),
			Version:             version,
			RecentWindowSize:    viper.GetInt("recent-window-size"),
			SimilarityK:         viper.GetInt("similarity-k"),
			SimilarityThreshold: viper.GetFloat64("similarity-threshold"),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return run(instanceProfile)
	},
}

func run(instanceProfile *profile.Profile) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("create database driver: %w", err)
	}
	storeInstance := store.New(driver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	aiConfig := ai.NewConfigFromProfile(instanceProfile)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	embedder, err := ai.NewEmbeddingService(&aiConfig.Embedding)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	llms := make(map[chat.ModelProvider]ai.LLMService, len(aiConfig.LLM))
	for name, llmConfig := range aiConfig.LLM {
		service, err := ai.NewLLMService(&llmConfig)
		if err != nil {
			return fmt.Errorf("create %s LLM service: %w", name, err)
		}
		llms[chat.ModelProvider(name)] = service
	}

	history := chat.NewHistoryService(storeInstance)
	index := chat.NewVectorIndex(storeInstance, embedder, aiConfig.Embedding.Model)
	retriever := chat.NewRetriever(index, instanceProfile.SimilarityK, float32(instanceProfile.SimilarityThreshold))
	orchestrator := chat.NewOrchestrator(chat.OrchestratorConfig{
		Registry:      chat.NewRegistry(chat.NewSessionStore(storeInstance)),
		Assembler:     chat.NewAssembler(history, retriever, instanceProfile.RecentWindowSize),
		History:       history,
		Index:         index,
		LLMs:          llms,
		ChatTimeout:   instanceProfile.ChatTimeout,
		MaxConcurrent: int64(instanceProfile.MaxConcurrentChats),
	})

	apiService := apiv1.NewAPIV1Service(instanceProfile, storeInstance, orchestrator)
	httpServer := server.NewServer(instanceProfile, storeInstance, apiService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the server")
	rootCmd.PersistentFlags().Int("port", 8000, "binding port for the server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "postgres", "database driver, postgres or sqlite")
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")
	rootCmd.PersistentFlags().Int("recent-window-size", 0, "messages of recent history per prompt")
	rootCmd.PersistentFlags().Int("similarity-k", 0, "retrieved messages per role per prompt")
	rootCmd.PersistentFlags().Float64("similarity-threshold", 0, "minimum cosine similarity for retrieval")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("miachat")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to start server", slog.Any("err", err))
		os.Exit(1)
	}
}
