package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"bbpr/internal/application"
	"bbpr/internal/config"
	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// App wires parsed commands to the application services. One App serves one
// invocation; the output mode lives in the Presenter each handler builds
// from its own flags.
type App struct {
	cfg     *config.Config
	store   driven.CredentialStore
	local   driven.LocalRepo
	factory application.ClientFactory
	out     io.Writer
	errOut  io.Writer
	version string
}

// NewApp assembles the CLI from its collaborator ports.
func NewApp(cfg *config.Config, store driven.CredentialStore, local driven.LocalRepo, factory application.ClientFactory, out, errOut io.Writer, version string) *App {
	return &App{
		cfg:     cfg,
		store:   store,
		local:   local,
		factory: factory,
		out:     out,
		errOut:  errOut,
		version: version,
	}
}

// Run dispatches the subcommand and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return ExitGeneric
	}

	switch args[0] {
	case "auth":
		return a.runAuth(ctx, args[1:])
	case "pr":
		return a.runPR(ctx, args[1:])
	case "comment":
		return a.runComment(ctx, args[1:])
	case "task":
		return a.runTask(ctx, args[1:])
	case "api":
		return a.runAPI(ctx, args[1:])
	case "version":
		fmt.Fprintf(a.out, "bbpr v%s\n", a.version)
		return 0
	case "help", "-h", "--help":
		a.usage()
		return 0
	default:
		fmt.Fprintf(a.errOut, "Unknown command: %s\n", args[0])
		a.usage()
		return ExitInvalidInput
	}
}

func (a *App) usage() {
	fmt.Fprint(a.errOut, `Usage: bbpr <command> [options]

Commands:
  auth login|status|logout      Manage Bitbucket credentials
  pr list|view|comments|diff|create
                                Inspect and create pull requests
  comment add|resolve|unresolve Post and resolve PR comments
  task resolve|unresolve        Resolve PR tasks
  api <path>                    Raw GET against the API (pretty JSON)
  version                       Print version information

Every command accepts --repo workspace/name and --json.
`)
}

// apiClient resolves credentials and builds an API client, failing with the
// auth error when no pair is available from any source.
func (a *App) apiClient(ctx context.Context) (driven.BitbucketClient, error) {
	creds, source, err := application.ResolveCredentials(ctx, a.cfg.Credentials, a.store)
	if err != nil {
		return nil, err
	}
	if source == application.CredentialSourceNone {
		return nil, driven.ErrAuth
	}
	return a.factory(creds), nil
}

func (a *App) presenter(jsonMode bool) *Presenter {
	return &Presenter{JSON: jsonMode, Out: a.out, Err: a.errOut}
}

// newFlagSet builds a flag set with the two global flags every command
// carries.
func (a *App) newFlagSet(name string, repo *string, jsonMode *bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.StringVar(repo, "repo", "", "workspace/name override (default: detect from origin remote)")
	fs.BoolVar(jsonMode, "json", false, "structured output")
	return fs
}

// parseArgs parses args against fs, allowing flags and positional arguments
// to interleave. The flag package stops at the first positional; this keeps
// going so "comment add 5 --message ..." works.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// arg returns the i-th positional argument, or "" when absent.
func arg(positional []string, i int) string {
	if i >= len(positional) {
		return ""
	}
	return positional[i]
}

// --- auth ---

func (a *App) runAuth(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "Usage: bbpr auth <login|status|logout>")
		return ExitInvalidInput
	}

	var (
		repo     string
		jsonMode bool
	)

	auth := application.NewAuthService(a.store, a.cfg.Credentials, a.factory)

	switch args[0] {
	case "login":
		fs := a.newFlagSet("auth login", &repo, &jsonMode)
		username := fs.String("username", "", "Bitbucket username")
		appPassword := fs.String("app-password", "", "Bitbucket app password")
		if err := fs.Parse(args[1:]); err != nil {
			return ExitInvalidInput
		}
		p := a.presenter(jsonMode)

		user, err := auth.Login(ctx, *username, *appPassword)
		if err != nil {
			return p.Fail(err)
		}
		p.Emit(fmt.Sprintf("logged in as %s (%s)", user.Username, user.DisplayName), toUserView(user, "stored"))
		return 0

	case "status":
		fs := a.newFlagSet("auth status", &repo, &jsonMode)
		if err := fs.Parse(args[1:]); err != nil {
			return ExitInvalidInput
		}
		p := a.presenter(jsonMode)

		user, source, err := auth.Status(ctx)
		if err != nil {
			return p.Fail(err)
		}
		p.Emit(fmt.Sprintf("authenticated as %s (%s) via %s credentials", user.Username, user.DisplayName, source), toUserView(user, string(source)))
		return 0

	case "logout":
		fs := a.newFlagSet("auth logout", &repo, &jsonMode)
		if err := fs.Parse(args[1:]); err != nil {
			return ExitInvalidInput
		}
		p := a.presenter(jsonMode)

		if err := auth.Logout(ctx); err != nil {
			return p.Fail(err)
		}
		p.Emit("stored credentials removed", map[string]string{"status": "logged_out"})
		return 0

	default:
		fmt.Fprintf(a.errOut, "Unknown auth command: %s\n", args[0])
		return ExitInvalidInput
	}
}

// --- pr ---

func (a *App) runPR(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "Usage: bbpr pr <list|view|comments|diff|create>")
		return ExitInvalidInput
	}

	switch args[0] {
	case "list":
		return a.runPRList(ctx, args[1:])
	case "view":
		return a.runPRView(ctx, args[1:])
	case "comments":
		return a.runPRComments(ctx, args[1:])
	case "diff":
		return a.runPRDiff(ctx, args[1:])
	case "create":
		return a.runPRCreate(ctx, args[1:])
	default:
		fmt.Fprintf(a.errOut, "Unknown pr command: %s\n", args[0])
		return ExitInvalidInput
	}
}

func (a *App) runPRList(ctx context.Context, args []string) int {
	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("pr list", &repo, &jsonMode)
	state := fs.String("state", "OPEN", "filter state: OPEN, MERGED, DECLINED, SUPERSEDED")
	if err := fs.Parse(args); err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	prState, err := application.ParsePRState(*state)
	if err != nil {
		return p.Fail(err)
	}

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	prs, err := application.NewPRService(client, a.local).List(ctx, ref, prState)
	if err != nil {
		return p.Fail(err)
	}
	p.Emit(renderPRList(prs), toPRViews(prs))
	return 0
}

func (a *App) runPRView(ctx context.Context, args []string) int {
	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("pr view", &repo, &jsonMode)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	id, err := application.ParseID("PR", arg(pos, 0))
	if err != nil {
		return p.Fail(err)
	}

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	pr, err := application.NewPRService(client, a.local).View(ctx, ref, id)
	if err != nil {
		return p.Fail(err)
	}
	p.Emit(renderPR(pr), toPRView(pr))
	return 0
}

func (a *App) runPRComments(ctx context.Context, args []string) int {
	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("pr comments", &repo, &jsonMode)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	id, err := application.ParseID("PR", arg(pos, 0))
	if err != nil {
		return p.Fail(err)
	}

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	tr, err := application.NewPRService(client, a.local).Comments(ctx, ref, id)
	if err != nil {
		return p.Fail(err)
	}
	p.Emit(renderTranscript(tr), toTranscriptView(tr))
	return 0
}

func (a *App) runPRDiff(ctx context.Context, args []string) int {
	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("pr diff", &repo, &jsonMode)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	id, err := application.ParseID("PR", arg(pos, 0))
	if err != nil {
		return p.Fail(err)
	}

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	diff, err := application.NewPRService(client, a.local).Diff(ctx, ref, id)
	if err != nil {
		return p.Fail(err)
	}
	// Diff output is always raw text, regardless of --json.
	fmt.Fprint(a.out, diff)
	return 0
}

func (a *App) runPRCreate(ctx context.Context, args []string) int {
	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("pr create", &repo, &jsonMode)
	title := fs.String("title", "", "pull request title")
	source := fs.String("source", "", "source branch (default: current branch)")
	dest := fs.String("dest", "", "destination branch (default: repository main branch)")
	body := fs.String("body", "", "pull request description")
	if err := fs.Parse(args); err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	pr, err := application.NewPRService(client, a.local).Create(ctx, ref, model.NewPullRequest{
		Title:             *title,
		Description:       *body,
		SourceBranch:      *source,
		DestinationBranch: *dest,
	})
	if err != nil {
		return p.Fail(err)
	}
	p.Emit(renderPR(pr), toPRView(pr))
	return 0
}

// --- comment ---

func (a *App) runComment(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "Usage: bbpr comment <add|resolve|unresolve>")
		return ExitInvalidInput
	}

	switch args[0] {
	case "add":
		return a.runCommentAdd(ctx, args[1:])
	case "resolve":
		return a.runCommentResolve(ctx, args[1:], true)
	case "unresolve":
		return a.runCommentResolve(ctx, args[1:], false)
	default:
		fmt.Fprintf(a.errOut, "Unknown comment command: %s\n", args[0])
		return ExitInvalidInput
	}
}

func (a *App) runCommentAdd(ctx context.Context, args []string) int {
	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("comment add", &repo, &jsonMode)
	message := fs.String("message", "", "comment text")
	parent := fs.Int64("parent", 0, "comment id to reply to")
	file := fs.String("file", "", "file path for an inline comment")
	line := fs.Int("line", 0, "line number for an inline comment")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	prID, err := application.ParseID("PR", arg(pos, 0))
	if err != nil {
		return p.Fail(err)
	}

	nc := driven.NewComment{Body: *message, Path: *file, Line: *line}
	if *parent != 0 {
		nc.ParentID = parent
	}

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	c, err := application.NewCommentService(client).Add(ctx, ref, prID, nc)
	if err != nil {
		return p.Fail(err)
	}
	p.Emit(renderComment(c), toCommentView(c, nil))
	return 0
}

func (a *App) runCommentResolve(ctx context.Context, args []string, resolved bool) int {
	var (
		repo     string
		jsonMode bool
	)
	name := "comment resolve"
	if !resolved {
		name = "comment unresolve"
	}
	fs := a.newFlagSet(name, &repo, &jsonMode)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	prID, err := application.ParseID("PR", arg(pos, 0))
	if err != nil {
		return p.Fail(err)
	}
	commentID, err := application.ParseID("comment", arg(pos, 1))
	if err != nil {
		return p.Fail(err)
	}

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	c, err := application.NewCommentService(client).SetResolved(ctx, ref, prID, commentID, resolved)
	if err != nil {
		return p.Fail(err)
	}
	p.Emit(renderComment(c), toCommentView(c, nil))
	return 0
}

// --- task ---

func (a *App) runTask(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "Usage: bbpr task <resolve|unresolve>")
		return ExitInvalidInput
	}

	var state model.TaskState
	switch args[0] {
	case "resolve":
		state = model.TaskStateResolved
	case "unresolve":
		state = model.TaskStateUnresolved
	default:
		fmt.Fprintf(a.errOut, "Unknown task command: %s\n", args[0])
		return ExitInvalidInput
	}

	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("task "+args[0], &repo, &jsonMode)
	pos, err := parseArgs(fs, args[1:])
	if err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	prID, err := application.ParseID("PR", arg(pos, 0))
	if err != nil {
		return p.Fail(err)
	}
	taskID, err := application.ParseID("task", arg(pos, 1))
	if err != nil {
		return p.Fail(err)
	}

	ref, client, err := a.target(ctx, repo)
	if err != nil {
		return p.Fail(err)
	}

	t, err := application.NewTaskService(client).SetState(ctx, ref, prID, taskID, state)
	if err != nil {
		return p.Fail(err)
	}
	p.Emit(renderTask(t), toTaskView(t))
	return 0
}

// --- api passthrough ---

func (a *App) runAPI(ctx context.Context, args []string) int {
	var (
		repo     string
		jsonMode bool
	)
	fs := a.newFlagSet("api", &repo, &jsonMode)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return ExitInvalidInput
	}
	p := a.presenter(jsonMode)

	path := arg(pos, 0)

	client, err := a.apiClient(ctx)
	if err != nil {
		return p.Fail(err)
	}

	raw, err := application.NewPRService(client, a.local).Raw(ctx, path)
	if err != nil {
		return p.Fail(err)
	}

	// Raw passthrough always pretty-prints, regardless of --json.
	var pretty json.RawMessage = raw
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fmt.Fprintln(a.out, string(raw))
		return 0
	}
	fmt.Fprintln(a.out, string(out))
	return 0
}

// target resolves the repository reference and builds an API client, in that
// order: a bad --repo fails before credentials are consulted.
func (a *App) target(ctx context.Context, repoOverride string) (model.RepoRef, driven.BitbucketClient, error) {
	ref, err := a.local.Resolve(repoOverride)
	if err != nil {
		return model.RepoRef{}, nil, err
	}

	client, err := a.apiClient(ctx)
	if err != nil {
		return model.RepoRef{}, nil, err
	}
	return ref, client, nil
}
