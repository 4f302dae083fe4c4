// Command structguard asks a language model a question about a set of
// context documents and prints the answer as validated JSON.
//
//	structguard --demo
//	structguard --context-file report.txt --question "What was Q3 revenue?"
//	structguard --provider openai --model gpt-4o-mini --context-url example.com/q3 --question "..."
//
// Invalid model output is retried with the validation error as feedback, up
// to --max-attempts times. Logs go to stderr, the result to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/leofalp/structguard/core/client"
	"github.com/leofalp/structguard/core/client/middleware"
	"github.com/leofalp/structguard/core/contextdoc"
	"github.com/leofalp/structguard/core/overview"
	"github.com/leofalp/structguard/core/resolve"
	"github.com/leofalp/structguard/core/schema"
	"github.com/leofalp/structguard/internal/config"
	"github.com/leofalp/structguard/providers/ai"
	"github.com/leofalp/structguard/providers/ai/anthropic"
	"github.com/leofalp/structguard/providers/ai/ollama"
	"github.com/leofalp/structguard/providers/ai/openai"
	"github.com/leofalp/structguard/providers/observability/slogobs"
	"github.com/leofalp/structguard/schemas/qa"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type cliFlags struct {
	context      string
	contextFiles stringList
	contextURLs  stringList
	question     string
	model        string
	provider     string
	baseURL      string
	maxAttempts  int
	configPath   string
	repair       bool
	constrain    bool
	demo         bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, map[string]bool, error) {
	fs := flag.NewFlagSet("structguard", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &cliFlags{}
	fs.StringVar(&f.context, "context", "", "context documents for the question, as literal text")
	fs.Var(&f.contextFiles, "context-file", "read a context document from a file (repeatable)")
	fs.Var(&f.contextURLs, "context-url", "fetch a context document from a URL (repeatable)")
	fs.StringVar(&f.question, "question", "", "question to answer")
	fs.StringVar(&f.model, "model", "", "model name (default llama3.2)")
	fs.StringVar(&f.provider, "provider", "", "completion provider: ollama, openai or anthropic (default ollama)")
	fs.StringVar(&f.baseURL, "base-url", "", "override the provider endpoint")
	fs.IntVar(&f.maxAttempts, "max-attempts", 0, "attempts before giving up (default 3)")
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&f.repair, "repair", false, "repair near-miss JSON locally before retrying")
	fs.BoolVar(&f.constrain, "constrain", false, "ask the provider to constrain output to the answer's JSON schema")
	fs.BoolVar(&f.demo, "demo", false, "run with the example context and question")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	return f, set, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "structguard:", err)
		return exitUsage
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "structguard:", err)
		return exitUsage
	}
	if err := applyFlags(cfg, flags, set); err != nil {
		fmt.Fprintln(stderr, "structguard:", err)
		return exitUsage
	}

	observer := newObserver(cfg, stderr)
	logger := observer.Logger()

	contextText, question, err := buildInput(ctx, flags)
	if err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(stderr, "structguard:", err)
			return exitUsage
		}
		logger.ErrorContext(ctx, "failed to load context", slog.Any("error", err))
		return exitFailure
	}

	llm, err := newClient(cfg, flags.constrain, observer)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create client", slog.Any("error", err))
		return exitFailure
	}

	ov := &overview.Overview{}
	ov.SetModelCost(cfg.Pricing)
	ctx = ov.ToContext(ctx)

	resolver := resolve.New(llm, qa.Descriptor,
		resolve.WithMaxAttempts(cfg.MaxAttempts),
		resolve.WithModel(cfg.Model),
		resolve.WithRepair(cfg.Repair),
		resolve.WithObserver(observer),
		resolve.WithAttemptHook(func(a resolve.Attempt) { ov.AddAttempt(a.Err != nil) }),
	)

	ov.StartExecution()
	answer, err := resolver.Resolve(ctx, qa.BuildPrompt(contextText, question))
	ov.EndExecution()
	logUsage(ctx, logger, ov)

	if err != nil {
		logger.ErrorContext(ctx, "no valid answer", slog.Any("error", err))
		fmt.Fprintln(stderr, "structguard:", err)
		return exitFailure
	}

	out, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, "structguard:", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, string(out))
	return exitOK
}

func logUsage(ctx context.Context, logger *slog.Logger, ov *overview.Overview) {
	usage := ov.Usage()
	attrs := []slog.Attr{
		slog.Int("attempts", ov.Attempts),
		slog.Int("rejected", ov.Rejected),
		slog.Int("completions", ov.CompletionCount()),
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens),
		slog.Duration("duration", ov.ExecutionDuration()),
	}
	if ov.ModelCost != nil {
		attrs = append(attrs, slog.String("cost", ov.CostSummary().String()))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "usage", attrs...)
}

// applyFlags lets explicitly set flags win over the config file and env.
func applyFlags(cfg *config.Config, f *cliFlags, set map[string]bool) error {
	if set["provider"] {
		cfg.Provider = strings.ToLower(strings.TrimSpace(f.provider))
	}
	if set["model"] {
		cfg.Model = f.model
	}
	if set["base-url"] {
		cfg.BaseURL = f.baseURL
	}
	if set["max-attempts"] {
		cfg.MaxAttempts = f.maxAttempts
	}
	if set["repair"] {
		cfg.Repair = f.repair
	}
	return cfg.Validate()
}

func newObserver(cfg *config.Config, stderr io.Writer) *slogobs.Observer {
	opts := []slogobs.Option{slogobs.WithOutput(stderr)}
	if cfg.LogLevel != "" {
		opts = append(opts, slogobs.WithLevel(slogobs.ParseLevel(cfg.LogLevel)))
	}
	if cfg.LogFormat != "" {
		opts = append(opts, slogobs.WithFormat(slogobs.ParseFormat(cfg.LogFormat)))
	}
	return slogobs.New(opts...)
}

func newProvider(cfg *config.Config) ai.Provider {
	var provider ai.Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		provider = openai.New()
	case config.ProviderAnthropic:
		provider = anthropic.New()
	default:
		provider = ollama.New()
	}

	if cfg.BaseURL != "" {
		provider = provider.WithBaseURL(cfg.BaseURL)
	}
	if cfg.APIKey != "" {
		provider = provider.WithAPIKey(cfg.APIKey)
	}
	return provider
}

// newClient wires the provider behind timeout, transport retry and logging
// middlewares. The timeout is innermost so each retry gets its own budget.
func newClient(cfg *config.Config, constrain bool, observer *slogobs.Observer) (*client.Client, error) {
	logLevel := middleware.LogLevelMinimal
	if slogobs.ParseLevel(cfg.LogLevel) == slogobs.LevelTrace {
		logLevel = middleware.LogLevelVerbose
	}

	middlewares := []client.Middleware{
		middleware.NewLoggingMiddleware(observer.Logger(), logLevel),
	}
	if cfg.MaxRetries > 0 {
		middlewares = append(middlewares, middleware.NewRetryMiddleware(middleware.RetryConfig{
			MaxRetries: cfg.MaxRetries,
		}))
	}
	middlewares = append(middlewares, middleware.NewTimeoutMiddleware(cfg.Timeout))

	opts := []client.Option{
		client.WithDefaultModel(cfg.Model),
		client.WithObserver(observer),
		client.WithMiddleware(middlewares...),
	}
	if cfg.Temperature != nil {
		opts = append(opts, client.WithTemperature(float32(*cfg.Temperature)))
	}
	if constrain {
		if documented, ok := qa.Descriptor.(schema.Documented); ok {
			opts = append(opts, client.WithResponseFormat(&ai.ResponseFormat{
				OutputSchema: documented.JSONSchema(),
				Strict:       true,
			}))
		}
	}

	return client.New(newProvider(cfg), opts...)
}

// usageError marks input errors that should exit with exitUsage.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

// buildInput assembles the context block and the question. With neither a
// question nor any context source, or with --demo, the demo input is used.
func buildInput(ctx context.Context, f *cliFlags) (string, string, error) {
	hasContext := f.context != "" || len(f.contextFiles) > 0 || len(f.contextURLs) > 0
	if f.demo || (!hasContext && f.question == "") {
		return qa.DemoContext, qa.DemoQuestion, nil
	}
	if strings.TrimSpace(f.question) == "" {
		return "", "", usageError{msg: "provide --question or use --demo"}
	}

	// Literal context alone is passed through unchanged.
	if len(f.contextFiles) == 0 && len(f.contextURLs) == 0 {
		return f.context, f.question, nil
	}

	var docs []contextdoc.Document
	if strings.TrimSpace(f.context) != "" {
		docs = append(docs, contextdoc.Text(f.context))
	}

	loader := contextdoc.NewLoader()
	for _, path := range f.contextFiles {
		doc, err := loader.LoadFile(path)
		if err != nil {
			return "", "", err
		}
		docs = append(docs, doc)
	}
	for _, url := range f.contextURLs {
		doc, err := loader.FetchURL(ctx, url)
		if err != nil {
			return "", "", err
		}
		docs = append(docs, doc)
	}

	return contextdoc.Format(docs), f.question, nil
}
