package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ASLaskin/CalenAI/internal/ics"
	appLog "github.com/ASLaskin/CalenAI/internal/log"
	"github.com/ASLaskin/CalenAI/internal/store"
)

func newExportCmd() *cobra.Command {
	var outPath string
	var days int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the upcoming schedule as an iCalendar file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			if days <= 0 {
				days = conf.HorizonDays
			}

			st, err := store.Open(conf.CalendarFile)
			if err != nil {
				appLog.Error("failed to open calendar store", err, "path", conf.CalendarFile)
				return err
			}

			doc := ics.Export(st, time.Now(), days)
			if outPath == "" {
				fmt.Print(doc)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(doc), 0o600); err != nil {
				return err
			}
			appLog.Info("schedule exported", "path", outPath, "days", days)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&days, "days", 0, "number of days to export (default config horizon)")
	return cmd
}
