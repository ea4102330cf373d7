package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"oncocare/internal/catalog"
)

type SymptomsListCmd struct{}

func (c *SymptomsListCmd) Run(rt *Runtime) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "", "TITLE")
	for _, s := range cat.All() {
		t.Row(s.ID, s.Letter, s.Title)
	}
	fmt.Fprintln(rt.Out, t.String())
	return nil
}

type SymptomsShowCmd struct {
	ID string `arg:"" help:"Symptom ID."`
}

func (c *SymptomsShowCmd) Run(rt *Runtime) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	s, ok := cat.ByID(c.ID)
	if !ok {
		return fmt.Errorf("no symptom with ID %s", c.ID)
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.Color))
	fmt.Fprintln(rt.Out, title.Render(s.Title))
	fmt.Fprintln(rt.Out)
	fmt.Fprintln(rt.Out, s.Description)
	fmt.Fprintln(rt.Out)
	for _, r := range s.Recommendations {
		fmt.Fprintf(rt.Out, "  • %s\n", r)
	}
	if s.VideoTitle != "" {
		fmt.Fprintf(rt.Out, "\nVideo: %s\n", s.VideoTitle)
	}
	return nil
}
