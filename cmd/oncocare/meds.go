package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"oncocare/internal/app"
	"oncocare/internal/domain"
)

func openRegistry(ctx context.Context, rt *Runtime) (*app.MedicationRegistry, func() error, error) {
	be, err := openBackend(ctx, rt.Config, rt.Log)
	if err != nil {
		return nil, nil, err
	}
	return app.NewMedicationRegistry(be.kv, app.WithLogger(rt.Log)), be.close, nil
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Remove").
		Negative("Keep").
		Value(&ok).
		WithTheme(huh.ThemeDracula()).
		Run()
	return ok, err
}

func medicationTable(items []domain.MedicationRecord) string {
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{m.ID, m.Name, m.Dose, m.Time, m.FrequencyLabel(), m.CreatedAt})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DOSE", "TIME", "FREQUENCY", "ADDED").
		Rows(rows...).
		String()
}

type MedsListCmd struct{}

func (c *MedsListCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	reg, closeFn, err := openRegistry(ctx, rt)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	items := reg.Load(ctx)
	if len(items) == 0 {
		fmt.Fprintln(rt.Out, "No medications yet.")
		return nil
	}
	fmt.Fprintln(rt.Out, medicationTable(items))
	return nil
}

type MedsAddCmd struct {
	Name      string `arg:"" help:"Medication name."`
	Dose      string `help:"Dose, e.g. \"8 mg\"."`
	Time      string `help:"Time of day, e.g. 08:00." required:""`
	Frequency string `help:"daily, every-other-day, weekly-1, weekly-3 or as-needed." required:""`
}

func (c *MedsAddCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	reg, closeFn, err := openRegistry(ctx, rt)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	rec, err := reg.Add(ctx, domain.MedicationInput{
		Name:      c.Name,
		Dose:      c.Dose,
		Time:      c.Time,
		Frequency: c.Frequency,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.Out, "Added %s (ID: %s)\n", rec.Name, rec.ID)
	return nil
}

type MedsRmCmd struct {
	ID  string `arg:"" help:"Medication ID to remove."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

var errNotFound = errors.New("no medication with that ID")

func (c *MedsRmCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	reg, closeFn, err := openRegistry(ctx, rt)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	var target *domain.MedicationRecord
	for _, m := range reg.Load(ctx) {
		if m.ID == c.ID {
			target = &m
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", errNotFound, c.ID)
	}

	if !c.Yes {
		ok, err := rt.Confirm("Remove medication?", fmt.Sprintf("%s %s at %s", target.Name, target.Dose, target.Time))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(rt.Out, "Kept.")
			return nil
		}
	}

	if !reg.Remove(ctx, c.ID) {
		return fmt.Errorf("%w: %s", errNotFound, c.ID)
	}
	fmt.Fprintf(rt.Out, "Removed %s (ID: %s)\n", target.Name, c.ID)
	return nil
}
