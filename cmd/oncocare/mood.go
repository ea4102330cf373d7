package main

import (
	"context"
	"fmt"

	"oncocare/internal/app"
	"oncocare/internal/domain"
)

func openMoodTracker(ctx context.Context, rt *Runtime) (*app.MoodTracker, func() error, error) {
	be, err := openBackend(ctx, rt.Config, rt.Log)
	if err != nil {
		return nil, nil, err
	}
	return app.NewMoodTracker(be.kv, app.WithLogger(rt.Log)), be.close, nil
}

type MoodGetCmd struct{}

func (c *MoodGetCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	mt, closeFn, err := openMoodTracker(ctx, rt)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	m, ok := mt.Load(ctx)
	if !ok {
		fmt.Fprintf(rt.Out, "%s: no mood recorded yet\n", mt.Today())
		return nil
	}
	fmt.Fprintf(rt.Out, "%s: %s (%s)\n", mt.Today(), m, m.Label())
	return nil
}

type MoodSetCmd struct {
	Mood string `arg:"" enum:"good,okay,bad" help:"One of good, okay, bad."`
}

func (c *MoodSetCmd) Run(rt *Runtime) error {
	m, err := domain.ParseMood(c.Mood)
	if err != nil {
		return err
	}

	ctx := context.Background()
	mt, closeFn, err := openMoodTracker(ctx, rt)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	m = mt.Select(ctx, m)
	fmt.Fprintf(rt.Out, "%s: %s (%s)\n", mt.Today(), m, m.Label())
	return nil
}

type MoodHistoryCmd struct {
	Days int `help:"Number of days, ending today." default:"7"`
}

func (c *MoodHistoryCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	mt, closeFn, err := openMoodTracker(ctx, rt)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	for _, e := range mt.History(ctx, c.Days) {
		if e.Mood == nil {
			fmt.Fprintf(rt.Out, "%s  -\n", e.Day)
			continue
		}
		fmt.Fprintf(rt.Out, "%s  %s\n", e.Day, *e.Mood)
	}
	return nil
}
