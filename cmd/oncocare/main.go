package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"oncocare/internal/config"
	"oncocare/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to the YAML config file. Missing files fall back to defaults." type:"path" default:"config.yaml" env:"ONCOCARE_CONFIG"`

	Serve ServeCmd `cmd:"" help:"Run the HTTP API."`
	Mood  struct {
		Get     MoodGetCmd     `cmd:"" help:"Show today's mood." default:"1"`
		Set     MoodSetCmd     `cmd:"" help:"Record today's mood."`
		History MoodHistoryCmd `cmd:"" help:"Show moods for the last days."`
	} `cmd:"" help:"Daily mood tracker."`
	Meds struct {
		List MedsListCmd `cmd:"" help:"List medications, newest first." default:"1"`
		Add  MedsAddCmd  `cmd:"" help:"Add a medication."`
		Rm   MedsRmCmd   `cmd:"" help:"Remove a medication."`
	} `cmd:"" help:"Medication reminders."`
	Symptoms struct {
		List SymptomsListCmd `cmd:"" help:"List side-effect guides." default:"1"`
		Show SymptomsShowCmd `cmd:"" help:"Show one side-effect guide."`
	} `cmd:"" help:"Chemotherapy side-effect guide."`
	Experiences struct {
		List ExperiencesListCmd `cmd:"" help:"List patient stories." default:"1"`
		Show ExperiencesShowCmd `cmd:"" help:"Read one patient story."`
	} `cmd:"" help:"Stories from other patients."`
	Contact ContactCmd `cmd:"" help:"Send a message to the care team."`
	Expert  struct {
		Ask  ExpertAskCmd  `cmd:"" help:"Ask the experts a written question."`
		List ExpertListCmd `cmd:"" help:"List your questions, newest first." default:"1"`
	} `cmd:"" help:"Ask an expert."`
}

// Runtime is shared by every command.
type Runtime struct {
	Config  *config.Config
	Log     *zap.Logger
	Out     io.Writer
	Confirm func(title, description string) (bool, error)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("oncocare"),
		kong.Description("Self-care companion for patients in chemotherapy"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0", "categories": categoriesVar()},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	rt := &Runtime{
		Config:  cfg,
		Log:     log,
		Out:     os.Stdout,
		Confirm: huhConfirm,
	}
	if err := ctx.Run(rt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
