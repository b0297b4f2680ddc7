package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"offboarding-backend/config"
	"offboarding-backend/internal/bootstrap"
	"offboarding-backend/internal/dashboard"
	"offboarding-backend/internal/database"
	"offboarding-backend/internal/logger"
	"offboarding-backend/internal/repository"
	"offboarding-backend/internal/summary"
	"offboarding-backend/internal/usecase"
	"offboarding-backend/internal/workflow"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
)

const usage = `offboardctl: inspect the offboarding store

Usage:
  offboardctl [-memory] <command>

  offboardctl list [-q text] [-status all|open|completed|rejected]
  offboardctl show <id>
  offboardctl summary <id>
  offboardctl delete <id>

With -memory the commands run against a throwaway store filled with demo requests.
`

func main() {
	memory := flag.Bool("memory", false, "use a throwaway in-memory store seeded with demo data")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, _ := config.Load()
	log := logger.New(logger.Config{
		Level:       config.GetEnv("LOG_LEVEL", "warn"),
		Environment: cfg.AppEnv,
		ServiceName: "offboardctl",
		Output:      os.Stderr,
	})

	uc, err := openUsecase(cfg, log, *memory)
	if err != nil {
		fmt.Fprintln(os.Stderr, "offboardctl:", err)
		os.Exit(1)
	}

	if err := run(flag.Args(), uc, os.Stdout, log); err != nil {
		fmt.Fprintln(os.Stderr, "offboardctl:", err)
		os.Exit(1)
	}
}

func openUsecase(cfg config.Config, log zerolog.Logger, memory bool) (*usecase.OffboardingUsecase, error) {
	if memory {
		uc, err := bootstrap.NewUsecaseWithKV(cfg, repository.NewMemoryKVRepository(), log, usecase.WithSyncNotifications())
		if err != nil {
			return nil, err
		}
		database.SeedAll(uc, log)
		return uc, nil
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewUsecase(cfg, db, log, usecase.WithSyncNotifications())
}

var errUsage = errors.New("invalid usage")

func run(args []string, uc *usecase.OffboardingUsecase, out io.Writer, log zerolog.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(out)
		q := fs.String("q", "", "search employee name or id")
		status := fs.String("status", dashboard.FilterAll, "all|open|completed|rejected")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return listRequests(uc, out, *q, *status)

	case "show", "summary", "delete":
		if len(args) != 2 {
			fmt.Fprint(out, usage)
			return errUsage
		}
		id := args[1]
		switch args[0] {
		case "show":
			res, err := uc.Open(id)
			if err != nil {
				return err
			}
			s := summary.Build(uc.Table(), res.Request)
			fmt.Fprintln(out, summary.RenderTerminal(s, progressOf(res)))
		case "summary":
			s, err := uc.Summary(id)
			if err != nil {
				return err
			}
			fmt.Fprint(out, s.Text())
		case "delete":
			if err := uc.Delete(id); err != nil {
				return err
			}
			log.Debug().Str("request_id", id).Msg("deleted from cli")
			fmt.Fprintf(out, "deleted %s\n", id)
		}
		return nil

	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func listRequests(uc *usecase.OffboardingUsecase, out io.Writer, q, status string) error {
	rows := uc.List(q, status)
	if len(rows) == 0 {
		fmt.Fprintln(out, "no requests")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		Headers("ID", "EMPLOYEE", "DEPARTMENT", "LAST DAY", "STAGE", "STATUS", "UPDATED")
	for _, r := range rows {
		t.Row(r.ID, r.EmployeeName, r.Department, r.LastWorkingDay, r.Stage, r.Status, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func progressOf(res workflow.Result) []workflow.ProgressMark {
	for _, in := range res.Intents {
		if in.Kind == workflow.IntentProgress {
			return in.Progress
		}
	}
	return nil
}
