/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/artwork"
	"github.com/ademuri/ytm-wrapped/internal/metrics"
	"github.com/ademuri/ytm-wrapped/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves reports over HTTP",
	Long: `POST an export to /wrapped to get the report as JSON. Also serves
/artwork, /healthz and Prometheus /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))

	serveCmd.Flags().Int("serve_workers", 4, "Number of goroutines folding each export")
	viper.BindPFlag("serve_workers", serveCmd.Flags().Lookup("serve_workers"))
}

func runServe() error {
	log := newLogger()
	config, err := analysisConfig()
	if err != nil {
		return err
	}

	m := metrics.New()
	provider, err := artwork.NewProvider(artworkOptions())
	if err != nil {
		return err
	}
	if cached, ok := provider.(*artwork.Cached); ok {
		cached.OnLookup = m.ObserveArtwork
	}

	addr := viper.GetString("addr")
	srv := server.New(addr, config, provider, m, log)
	srv.Workers = viper.GetInt("serve_workers")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.WithField("signal", sig.String()).Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown error")
		}
		cancel()
	}()

	log.WithField("addr", addr).Info("Listening")
	if err := srv.Serve(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}

	<-ctx.Done()
	log.Info("Server stopped gracefully")
	return nil
}
