package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"oncocare/internal/app"
	"oncocare/internal/config"
	"oncocare/internal/domain"
)

func openInquiries(cfg *config.Config, kv domain.KVStore, log *zap.Logger) (*app.ContactService, *app.ExpertService) {
	contact := app.NewContactService(kv,
		app.WithLogger(log),
		app.WithSimulatedLatency(cfg.Inquiries.ContactLatency),
	)
	expert := app.NewExpertService(kv,
		app.WithLogger(log),
		app.WithSimulatedLatency(cfg.Inquiries.ExpertLatency),
	)
	return contact, expert
}

type ContactCmd struct {
	Name    string `help:"Your name." required:""`
	Email   string `help:"Reply address." required:""`
	Message string `arg:"" help:"Message text."`
}

func (c *ContactCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	be, err := openBackend(ctx, rt.Config, rt.Log)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()

	contact, _ := openInquiries(rt.Config, be.kv, rt.Log)
	msg, err := contact.Send(ctx, domain.ContactInput{Name: c.Name, Email: c.Email, Message: c.Message})
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.Out, "Message sent (ID: %s)\n", msg.ID)
	return nil
}

type ExpertAskCmd struct {
	Category string `help:"One of: ${categories}." required:""`
	Question string `arg:"" help:"Your question, at least 10 characters."`
}

func (c *ExpertAskCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	be, err := openBackend(ctx, rt.Config, rt.Log)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()

	_, expert := openInquiries(rt.Config, be.kv, rt.Log)
	q, err := expert.Ask(ctx, domain.QuestionInput{Category: c.Category, Question: c.Question})
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.Out, "Question filed under %s (ID: %s)\n", q.Category, q.ID)
	return nil
}

type ExpertListCmd struct{}

func (c *ExpertListCmd) Run(rt *Runtime) error {
	ctx := context.Background()
	be, err := openBackend(ctx, rt.Config, rt.Log)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()

	_, expert := openInquiries(rt.Config, be.kv, rt.Log)
	items, err := expert.Questions(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(rt.Out, "No questions yet.")
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ASKED", "CATEGORY", "QUESTION")
	for _, q := range items {
		t.Row(q.AskedAt.Local().Format("02.01.2006 15:04"), q.Category, q.Question)
	}
	fmt.Fprintln(rt.Out, t.String())
	return nil
}

func categoriesVar() string {
	return strings.Join(domain.ExpertCategories, ", ")
}
