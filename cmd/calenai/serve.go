package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ASLaskin/CalenAI/internal/assistant"
	"github.com/ASLaskin/CalenAI/internal/digest"
	"github.com/ASLaskin/CalenAI/internal/history"
	appLog "github.com/ASLaskin/CalenAI/internal/log"
	"github.com/ASLaskin/CalenAI/internal/store"
	"github.com/ASLaskin/CalenAI/internal/web"
)

func newServeCmd() *cobra.Command {
	var listenFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar and chat API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			if listenFlag != "" {
				conf.Listen = listenFlag
			}

			st, err := store.Open(conf.CalendarFile)
			if err != nil {
				appLog.Error("failed to open calendar store", err, "path", conf.CalendarFile)
				return err
			}
			hist := history.Load(conf.HistoryFile)

			client := assistant.NewClient(conf.OllamaURL, conf.Model, conf.Temperature)
			asst := assistant.New(client, st, hist, conf.HorizonDays)
			if !asst.Ping(cmd.Context()) {
				// The calendar API still works without the model;
				// only /api/chat degrades.
				appLog.Info("model endpoint unreachable, chat disabled", "ollama_url", conf.OllamaURL)
				asst = nil
			}

			sched, err := digest.Start(conf.DigestCron, st)
			if err != nil {
				appLog.Error("invalid digest schedule", err, "spec", conf.DigestCron)
				return err
			}
			defer sched.Stop()

			// No WriteTimeout: /api/chat legitimately blocks for the
			// duration of local model generation.
			srv := &http.Server{
				Addr:        conf.Listen,
				Handler:     web.NewServer(st, asst, conf.HorizonDays).Handler(),
				ReadTimeout: 15 * time.Second,
				IdleTimeout: 60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				appLog.Info("signal received, shutting down", "signal", sig.String())
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			if err := hist.Save(); err != nil {
				appLog.Error("history save failed", err)
			}
			appLog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listenFlag, "listen", "", "listen address override")
	return cmd
}
