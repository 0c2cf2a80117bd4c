package main

// Roast a resume from the terminal:
//   ANTHROPIC_API_KEY=... go run ./cmd/roast -resume resume.txt -role "Data Engineer" -years 5

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"resume-roaster/internal/credentials"
	"resume-roaster/internal/llm/anthropic"
	"resume-roaster/internal/roast"
	"resume-roaster/internal/session"
	"resume-roaster/internal/sessions"
	"resume-roaster/internal/shared/config"
	"resume-roaster/internal/shared/telemetry"
)

const cliClient = "cli"

type options struct {
	resumePath string
	role       string
	years      int
	model      string
	endpoint   string
	apiKey     string
	contact    string
	promptOnly bool
}

func main() {
	cfg := config.Load()

	opts := options{endpoint: cfg.LLMEndpoint, apiKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))}
	flag.StringVar(&opts.resumePath, "resume", "-", "Path to a plain-text resume, or - for stdin")
	flag.StringVar(&opts.role, "role", roast.DefaultRole, "Target role")
	flag.IntVar(&opts.years, "years", roast.DefaultExperience, "Years of experience")
	flag.StringVar(&opts.model, "model", cfg.LLMModel, "Model identifier")
	flag.StringVar(&opts.contact, "contact", "", "Email that unlocks the gated sections")
	flag.BoolVar(&opts.promptOnly, "prompt", false, "Print the prompt and exit")
	flag.Parse()

	telemetry.Init("error")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts, os.Stdin, os.Stdout)
	stop()
	telemetry.Sync()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run drives one session from paste to results and prints the visible sections.
func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	text, err := readResume(opts.resumePath, stdin)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	if opts.promptOnly {
		_, err := fmt.Fprintln(stdout, roast.BuildPrompt(roast.PromptInput{
			ResumeText:      text,
			TargetRole:      opts.role,
			ExperienceYears: opts.years,
		}))
		return err
	}

	client := anthropic.NewClient(opts.model).WithEndpoint(opts.endpoint)
	svc := sessions.NewService(client, credentials.NewMemoryStore())
	defer svc.Shutdown(context.Background())

	snap, err := svc.Create(ctx, cliClient)
	if err != nil {
		return err
	}
	events := []session.Event{
		session.CredentialChanged{Credential: opts.apiKey},
		session.ResumePasted{Text: text},
		session.PreferencesChanged{TargetRole: opts.role, ExperienceYears: opts.years},
		session.AnalyzeRequested{},
	}
	for _, ev := range events {
		if next, err := svc.Dispatch(ctx, cliClient, snap.ID, ev); err != nil {
			return errors.New(describe(next, err))
		}
	}

	snap, err = svc.Await(ctx, cliClient, snap.ID)
	if err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	if snap.State.Stage != session.StageResults {
		return errors.New(snap.State.LastError)
	}

	if opts.contact != "" {
		next, err := svc.Dispatch(ctx, cliClient, snap.ID, session.ContactSubmitted{Email: opts.contact})
		if err != nil {
			return errors.New(describe(next, err))
		}
		snap = next
	}
	printView(stdout, snap.View())
	return nil
}

func readResume(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(stdin)
		return string(raw), err
	}
	raw, err := os.ReadFile(path)
	return string(raw), err
}

func describe(snap sessions.Snapshot, err error) string {
	if errors.Is(err, sessions.ErrRejected) && snap.State.LastError != "" {
		return snap.State.LastError
	}
	return err.Error()
}

var headings = map[string]string{
	roast.KeyRoast:     "THE ROAST",
	roast.KeyWins:      "WINS",
	roast.KeyATSScore:  "ATS COMPATIBILITY SCORE",
	roast.KeyRewrites:  "TOP 3 REWRITES",
	roast.KeyQuickWins: "QUICK WINS",
	roast.KeyRedFlags:  "RED FLAGS",
}

func printView(w io.Writer, view session.ViewModel) {
	for _, key := range roast.Keys() {
		body, ok := view.Sections[key]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "== %s ==\n%s\n\n", headings[key], body)
	}
	if len(view.LockedSections) > 0 {
		fmt.Fprintf(w, "%d more sections locked; rerun with -contact you@example.com\n", len(view.LockedSections))
	}
}
