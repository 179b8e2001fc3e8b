package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// AddRecord asks for each vital in turn; blank answers are left out.
func (a *App) AddRecord(ctx context.Context) error {
	var in models.HealthRecordInput

	ints := []struct {
		prompt string
		dst    **int
	}{
		{"Systolic BP, mmHg (blank to skip)", &in.SystolicBP},
		{"Diastolic BP, mmHg (blank to skip)", &in.DiastolicBP},
		{"Heart rate, bpm (blank to skip)", &in.HeartRate},
	}
	for _, f := range ints {
		s, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if *f.dst, err = parseOptionalInt(s); err != nil {
			return err
		}
	}

	floats := []struct {
		prompt string
		dst    **float64
	}{
		{"Blood sugar, mg/dL (blank to skip)", &in.BloodSugar},
		{"Weight, kg (blank to skip)", &in.Weight},
		{"Temperature, °C (blank to skip)", &in.Temperature},
	}
	for _, f := range floats {
		s, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if *f.dst, err = parseOptionalFloat(s); err != nil {
			return err
		}
	}

	notes, err := getMultiline(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}
	in.Notes = parseOptionalString(notes)

	rec, err := a.api.CreateRecord(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Record %s saved\n", rec.ID)
	return nil
}

// Records lists records newest first. An optional argument limits the
// listing to the last N days.
func (a *App) Records(ctx context.Context, args []string) error {
	days := 0
	if len(args) > 0 {
		var err error
		if days, err = strconv.Atoi(args[0]); err != nil || days < 1 {
			return fmt.Errorf("usage: records [days]")
		}
	}

	recs, err := a.api.ListRecords(ctx, days)
	if err != nil {
		return err
	}
	a.printRecords(recs)
	return nil
}

func (a *App) DeleteRecord(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Enter record ID")
	if err != nil {
		return err
	}
	if err := a.api.DeleteRecord(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Record deleted")
	return nil
}

// idArg takes the id from args or, when absent, asks for it.
func (a *App) idArg(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("an ID is required")
	}
	return id, nil
}

func (a *App) printRecords(recs []models.HealthRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No records")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECORDED\tBP\tHR\tSUGAR\tWEIGHT\tTEMP\tNOTES")
	for _, r := range recs {
		bp := "-"
		if r.SystolicBP != nil && r.DiastolicBP != nil {
			bp = fmt.Sprintf("%d/%d", *r.SystolicBP, *r.DiastolicBP)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.RecordedAt.Local().Format(time.DateTime),
			bp,
			fmtInt(r.HeartRate),
			fmtFloat(r.BloodSugar),
			fmtFloat(r.Weight),
			fmtFloat(r.Temperature),
			fmtString(r.Notes),
		)
	}
	_ = tw.Flush()
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtString(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
