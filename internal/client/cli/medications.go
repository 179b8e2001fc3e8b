package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// now is swapped in tests so default start dates are predictable.
var now = time.Now

func (a *App) AddMedication(ctx context.Context) error {
	in, err := a.readMedication()
	if err != nil {
		return err
	}
	med, err := a.api.CreateMedication(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Medication %s saved\n", med.ID)
	return nil
}

// Medications lists medications; "meds active" shows only active ones.
func (a *App) Medications(ctx context.Context, args []string) error {
	activeOnly := len(args) > 0 && args[0] == "active"

	meds, err := a.api.ListMedications(ctx, activeOnly)
	if err != nil {
		return err
	}
	if len(meds) == 0 {
		fmt.Fprintln(a.out, "No medications")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDOSAGE\tFREQUENCY\tTIMES\tFROM\tTO\tACTIVE")
	for _, m := range meds {
		to := "-"
		if m.EndDate != nil {
			to = m.EndDate.Format(dateLayout)
		}
		active := "no"
		if m.Active {
			active = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, m.Dosage, m.Frequency,
			strings.Join(m.TimeOfDay, ","),
			m.StartDate.Format(dateLayout), to, active)
	}
	_ = tw.Flush()
	return nil
}

// UpdateMedication replaces every field of the medication; fields left
// blank are cleared, not kept.
func (a *App) UpdateMedication(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Enter medication ID")
	if err != nil {
		return err
	}
	in, err := a.readMedication()
	if err != nil {
		return err
	}
	if err := a.api.UpdateMedication(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Medication updated")
	return nil
}

// StopMedication marks the medication inactive. It stays in the history.
func (a *App) StopMedication(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Enter medication ID")
	if err != nil {
		return err
	}
	if err := a.api.DeactivateMedication(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Medication stopped")
	return nil
}

func (a *App) readMedication() (models.MedicationInput, error) {
	var in models.MedicationInput

	required := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &in.Name},
		{"Dosage (e.g. 500mg)", &in.Dosage},
		{"Frequency (e.g. twice daily)", &in.Frequency},
	}
	for _, f := range required {
		s, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return in, err
		}
		*f.dst = s
	}

	times, err := getSimpleText(a.reader, "Times of day, comma separated (e.g. 08:00, 20:00)", a.out)
	if err != nil {
		return in, err
	}
	in.TimeOfDay = splitList(times)

	start, err := getSimpleText(a.reader, "Start date YYYY-MM-DD (blank for today)", a.out)
	if err != nil {
		return in, err
	}
	startDate, err := parseOptionalDate(start)
	if err != nil {
		return in, err
	}
	if startDate == nil {
		today := now().UTC().Truncate(24 * time.Hour)
		startDate = &today
	}
	in.StartDate = *startDate

	end, err := getSimpleText(a.reader, "End date YYYY-MM-DD (blank for none)", a.out)
	if err != nil {
		return in, err
	}
	if in.EndDate, err = parseOptionalDate(end); err != nil {
		return in, err
	}

	notes, err := getSimpleText(a.reader, "Notes (blank to skip)", a.out)
	if err != nil {
		return in, err
	}
	in.Notes = parseOptionalString(notes)

	return in, nil
}
