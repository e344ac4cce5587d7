// Package main is the entry point for the loglens analysis service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loglens/loglens/internal/analyzer"
	"github.com/loglens/loglens/internal/api"
	"github.com/loglens/loglens/internal/config"
	"github.com/loglens/loglens/internal/llm"
	"github.com/loglens/loglens/internal/patterns"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "loglens",
	Short: "Log bottleneck analysis: deterministic sensing plus LLM reasoning",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a log file and print the report as JSON (no LLM call)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(args[0])
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe() error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	masks := loadMasks(cfg.PatternsFile)

	var endpoints []llm.Endpoint
	for _, ep := range cfg.LLMEndpoints {
		endpoints = append(endpoints, llm.Endpoint{
			URL:    ep.URL,
			Model:  ep.Model,
			APIKey: ep.APIKey,
		})
	}
	reasoner := llm.NewClient(endpoints)

	core := analyzer.New(masks)
	server := api.NewServer(cfg.ListenAddr, core, reasoner, cfg.MaxUploadBytes)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting analysis API on %s", cfg.ListenAddr)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}
	log.Println("Shutdown complete")
	return nil
}

// loadMasks loads masking rules from the configured file, falling back to
// the compiled defaults.
func loadMasks(path string) []patterns.CompiledPattern {
	if path == "" {
		path = "config/patterns.yaml"
	}
	masks, err := patterns.LoadPatterns(path)
	if err != nil {
		log.Printf("Warning: failed to load patterns: %v (using defaults)", err)
		return nil
	}
	return masks
}

// runAnalyze reads a log file ("-" for stdin) and prints the sensing
// report without involving the reasoning layer.
func runAnalyze(path string) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	report := analyzer.New(nil).Analyze(string(data))

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
