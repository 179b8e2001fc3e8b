package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

func (a *App) Stats(ctx context.Context) error {
	s, err := a.api.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Total records:       %d\n", s.TotalRecords)
	fmt.Fprintf(a.out, "Active medications:  %d\n", s.ActiveMedications)
	fmt.Fprintf(a.out, "Current streak:      %d day(s)\n", s.CurrentStreak)

	if s.LatestVitals != nil {
		fmt.Fprintln(a.out, "Latest vitals:")
		a.printRecords([]models.HealthRecord{*s.LatestVitals})
	}

	if len(s.Achievements) > 0 {
		fmt.Fprintln(a.out, "Achievements:")
		for _, ach := range s.Achievements {
			mark := "[ ]"
			if ach.Unlocked {
				mark = "[x]"
			}
			fmt.Fprintf(a.out, "  %s %s\n", mark, ach.Title)
		}
	}
	return nil
}

// Trends prints the record history of the last N days
// (models.DefaultTrendDays by default), oldest first.
func (a *App) Trends(ctx context.Context, args []string) error {
	days := models.DefaultTrendDays
	if len(args) > 0 {
		var err error
		if days, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("usage: trends [days]")
		}
	}

	tr, err := a.api.Trends(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Last %d day(s):\n", days)
	a.printRecords(tr.Records)
	return nil
}

func (a *App) Export(ctx context.Context) error {
	exp, err := a.api.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Export ready. Download before %s:\n%s\n",
		exp.ExpiresAt.Local().Format("2006-01-02 15:04:05"), exp.URL)
	return nil
}
