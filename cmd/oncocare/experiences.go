package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"oncocare/internal/catalog"
)

type ExperiencesListCmd struct{}

func (c *ExperiencesListCmd) Run(rt *Runtime) error {
	stories, err := catalog.LoadExperiences()
	if err != nil {
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "AUTHOR", "DATE", "PREVIEW")
	for _, e := range stories.All() {
		t.Row(e.ID, e.Author, e.Date, e.Preview)
	}
	fmt.Fprintln(rt.Out, t.String())
	return nil
}

type ExperiencesShowCmd struct {
	ID string `arg:"" help:"Story ID."`
}

func (c *ExperiencesShowCmd) Run(rt *Runtime) error {
	stories, err := catalog.LoadExperiences()
	if err != nil {
		return err
	}
	e, ok := stories.ByID(c.ID)
	if !ok {
		return fmt.Errorf("no story with ID %s", c.ID)
	}

	fmt.Fprintln(rt.Out, lipgloss.NewStyle().Bold(true).Render(e.Title))
	fmt.Fprintln(rt.Out, lipgloss.NewStyle().Faint(true).Render(e.Author+" · "+e.Date))
	fmt.Fprintln(rt.Out)
	fmt.Fprintln(rt.Out, e.Story)
	return nil
}
