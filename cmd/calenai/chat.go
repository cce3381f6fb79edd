package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ASLaskin/CalenAI/internal/assistant"
	"github.com/ASLaskin/CalenAI/internal/history"
	appLog "github.com/ASLaskin/CalenAI/internal/log"
	"github.com/ASLaskin/CalenAI/internal/store"
)

func newChatCmd() *cobra.Command {
	var modelFlag string
	var temperatureFlag float64

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with the scheduling assistant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			if modelFlag != "" {
				conf.Model = modelFlag
			}
			if temperatureFlag > 0 {
				conf.Temperature = temperatureFlag
			}

			st, err := store.Open(conf.CalendarFile)
			if err != nil {
				appLog.Error("failed to open calendar store", err, "path", conf.CalendarFile)
				return err
			}
			hist := history.Load(conf.HistoryFile)

			client := assistant.NewClient(conf.OllamaURL, conf.Model, conf.Temperature)
			asst := assistant.New(client, st, hist, conf.HorizonDays)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Interrupt ends the session with a best-effort history
			// flush instead of dropping the exchange in flight.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nExiting...")
				if err := hist.Save(); err != nil {
					appLog.Error("history save failed", err)
				}
				cancel()
				os.Exit(0)
			}()

			if !asst.Ping(ctx) {
				fmt.Println("Ollama server is not running.")
				fmt.Println("Start it with 'ollama serve' in a separate terminal.")
				return fmt.Errorf("model endpoint unreachable at %s", conf.OllamaURL)
			}

			fmt.Println("Calendar Assistant Jared - Ready to help organize your schedule")
			fmt.Printf("Using model: %s\n", conf.Model)

			return chatLoop(ctx, asst, hist)
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "model override")
	cmd.Flags().Float64Var(&temperatureFlag, "temperature", 0, "sampling temperature override")
	return cmd
}

// chatLoop reads multi-line prompts (a blank line submits) until EOF or
// an exit command, running one assistant turn per prompt.
func chatLoop(ctx context.Context, asst *assistant.Assistant, hist *history.History) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		var lines []string
		for {
			if len(lines) == 0 {
				fmt.Print("> ")
			} else {
				fmt.Print("  ")
			}
			if !scanner.Scan() {
				return saveAndReport(hist)
			}
			line := scanner.Text()
			if line == "" && len(lines) > 0 {
				break
			}
			switch strings.ToLower(line) {
			case "exit", "quit":
				return saveAndReport(hist)
			}
			if line != "" {
				lines = append(lines, line)
			}
		}

		prompt := strings.Join(lines, "\n")
		fmt.Println("\nThinking...")

		result, err := asst.Turn(ctx, prompt)
		if err != nil {
			// Transport errors end a turn, not the session.
			fmt.Printf("\nError: %v\n\n", err)
			continue
		}

		fmt.Println("\n" + result.Response + "\n")
	}
}

func saveAndReport(hist *history.History) error {
	if err := hist.Save(); err != nil {
		appLog.Error("history save failed", err)
		return err
	}
	fmt.Println("Conversation history saved")
	return nil
}
