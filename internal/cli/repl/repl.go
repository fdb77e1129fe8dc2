package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"vjudge/internal/auth"
	"vjudge/internal/catalog"
	"vjudge/internal/cli/command"
	"vjudge/internal/grading"
	"vjudge/internal/pqrs"
	"vjudge/internal/stats"
	"vjudge/internal/tracker"
	pkgerrors "vjudge/pkg/errors"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

const (
	mainPrompt = "vjudge> "

	// catalogs rarely change; refetch at most every few minutes
	catalogTTL = 5 * time.Minute

	// profile reductions need the full history, not one page
	historyLimit = 1000
)

// Deps carries everything a REPL session talks to.
type Deps struct {
	Commands   map[string]command.Command
	Session    *auth.Session
	Auth       *auth.Client
	Grading    *grading.Client
	PQRS       *pqrs.Client
	Tracker    *tracker.Tracker
	PageSize   int
	PrettyJSON bool
}

// Session is one interactive CLI session.
type Session struct {
	deps     Deps
	catalogs *catalog.Cache
	rl       *readline.Instance
}

func New(deps Deps) *Session {
	return &Session{
		deps:     deps,
		catalogs: catalog.New(16, catalogTTL),
	}
}

// Run reads commands until EOF or "exit".
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          mainPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "bye",
	})
	if err != nil {
		return fmt.Errorf("init readline failed: %w", err)
	}
	defer func() { _ = rl.Close() }()
	s.rl = rl

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil { // io.EOF
			s.printLine("bye")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case line == "exit", line == "quit":
			s.printLine("bye")
			return nil
		case line == "help":
			s.printHelp()
			continue
		case strings.HasPrefix(line, "show "):
			s.handleShow(strings.TrimSpace(strings.TrimPrefix(line, "show ")))
			continue
		}

		if err := s.handleCommand(ctx, line); err != nil {
			s.printLine("error: %v", err)
		}
	}
}

func (s *Session) handleShow(args string) {
	switch args {
	case "session":
		s.printLine("user_id: %s", s.deps.Session.UserID())
		if !s.deps.Session.Authenticated() {
			s.printLine("token: <empty>")
			return
		}
		token := s.deps.Session.Token()
		if len(token) > 12 {
			token = token[:6] + "..." + token[len(token)-4:]
		}
		s.printLine("token: %s", token)
		if roles := s.deps.Session.Roles(); len(roles) > 0 {
			s.printLine("roles: %s", strings.Join(roles, ", "))
		}
	default:
		s.printLine("usage: show session")
	}
}

func (s *Session) handleCommand(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) < 2 {
		return fmt.Errorf("invalid command, use: <service> <action> key=value ...")
	}
	key := fmt.Sprintf("%s %s", tokens[0], tokens[1])
	cmd, ok := s.deps.Commands[key]
	if !ok {
		return fmt.Errorf("unknown command: %s", key)
	}

	params := command.Params{}
	for _, token := range tokens[2:] {
		parts := strings.SplitN(token, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid param: %s", token)
		}
		params.Set(parts[0], parts[1])
	}
	params.Canonicalize(cmd.Fields)

	if err := s.checkAccess(cmd); err != nil {
		return err
	}
	s.applyParamShortcuts(cmd, params)
	if err := s.promptMissing(cmd, params); err != nil {
		return err
	}
	return s.dispatch(ctx, cmd, params)
}

// checkAccess enforces the command's session requirements locally. The
// backends still authorize for real; this only saves a doomed round trip.
func (s *Session) checkAccess(cmd command.Command) error {
	if cmd.RequiresAuth && !s.deps.Session.Authenticated() {
		return pkgerrors.Newf(pkgerrors.Unauthorized, "sign in first: user signin")
	}
	switch cmd.RequiresRole {
	case "":
	case auth.RoleAdmin:
		if !s.deps.Session.IsAdmin() {
			return pkgerrors.New(pkgerrors.RoleRequired).WithDetail("role", auth.RoleAdmin)
		}
	case auth.RoleModerator:
		if !s.deps.Session.IsModerator() && !s.deps.Session.IsAdmin() {
			return pkgerrors.New(pkgerrors.RoleRequired).WithDetail("role", auth.RoleModerator)
		}
	}
	return nil
}

func (s *Session) applyParamShortcuts(cmd command.Command, params command.Params) {
	if cmd.Service == "submission" && cmd.Action == "create" {
		if params.Get("source_file") != "" && params.Get("source_code") == "" {
			params.Set("source_code", "_file_")
		}
	}
}

func (s *Session) promptMissing(cmd command.Command, params command.Params) error {
	for _, field := range cmd.Fields {
		if !field.Required {
			continue
		}
		if params.Get(field.Name) != "" {
			continue
		}
		value, err := s.promptValue(field.Prompt)
		if err != nil {
			return err
		}
		params.Set(field.Name, value)
	}
	return nil
}

func (s *Session) promptValue(prompt string) (string, error) {
	s.rl.SetPrompt(prompt + ": ")
	defer s.rl.SetPrompt(mainPrompt)
	line, err := s.rl.Readline()
	if err != nil {
		return "", fmt.Errorf("read input failed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) printHelp() {
	s.printLine("usage: <service> <action> key=value ...")
	s.printLine("system: help | exit | show session")
	services := []string{"user", "problem", "language", "submission", "profile", "pqrs", "admin"}
	for _, service := range services {
		for _, cmd := range s.deps.Commands {
			if cmd.Service != service {
				continue
			}
			gate := ""
			if cmd.RequiresRole != "" {
				gate = " [" + cmd.RequiresRole + "]"
			}
			s.printLine("  %-24s %s%s", cmd.Key(), cmd.Summary, gate)
		}
	}
	s.printLine("examples:")
	s.printLine("  user signin email=demo@example.com password=secret")
	s.printLine("  submission create problem_id=1 language_id=2 source_file=./main.cpp")
	s.printLine("  submission watch id=42")
}

func (s *Session) printLine(format string, args ...interface{}) {
	fmt.Fprintf(s.writer(), format+"\n", args...)
}

func (s *Session) writer() io.Writer {
	if s.rl != nil {
		return s.rl.Stdout()
	}
	panic("repl session not running")
}

func (s *Session) printJSON(v interface{}) {
	var data []byte
	var err error
	if s.deps.PrettyJSON {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		s.printLine("render failed: %v", err)
		return
	}
	s.printLine("%s", string(data))
}

func (s *Session) dispatch(ctx context.Context, cmd command.Command, params command.Params) error {
	switch cmd.Key() {
	case "user signin":
		return s.runSignIn(ctx, params)
	case "user signup":
		return s.runSignUp(ctx, params)
	case "user whoami":
		return s.runWhoAmI(ctx)
	case "user signout":
		return s.runSignOut(ctx)
	case "problem list":
		return s.runProblemList(ctx)
	case "problem get":
		return s.runProblemGet(ctx, params)
	case "language list":
		return s.runLanguageList(ctx)
	case "submission create":
		return s.runSubmissionCreate(ctx, params)
	case "submission get":
		return s.runSubmissionGet(ctx, params)
	case "submission watch":
		return s.runSubmissionWatch(ctx, params)
	case "submission list":
		return s.runSubmissionList(ctx, params)
	case "profile stats":
		return s.runProfileStats(ctx, params)
	case "profile solved":
		return s.runProfileSolved(ctx, params)
	case "pqrs categories":
		return s.renderResult(s.deps.PQRS.Categories(ctx))
	case "pqrs states":
		return s.renderResult(s.deps.PQRS.States(ctx))
	case "pqrs create":
		return s.runPQRSCreate(ctx, params)
	case "pqrs list":
		return s.renderResult(s.deps.PQRS.List(ctx))
	case "pqrs get":
		return s.runPQRSGet(ctx, params)
	case "pqrs status":
		return s.runPQRSStatus(ctx, params)
	case "pqrs history":
		return s.runPQRSHistory(ctx, params)
	case "pqrs stats":
		return s.renderResult(s.deps.PQRS.Stats(ctx))
	case "admin problem-create":
		return s.runProblemCreate(ctx, params)
	case "admin problem-update":
		return s.runProblemUpdate(ctx, params)
	case "admin problem-delete":
		return s.runProblemDelete(ctx, params)
	case "admin submission-delete":
		return s.runSubmissionDelete(ctx, params)
	case "admin user-list":
		return s.renderResult(s.deps.Auth.ListUsers(ctx))
	case "admin user-get":
		return s.renderResult(s.deps.Auth.GetUser(ctx, params.Get("id")))
	case "admin user-update":
		return s.runUserUpdate(ctx, params)
	case "admin user-role":
		return s.runUserRole(ctx, params)
	case "admin user-delete":
		return s.runUserDelete(ctx, params)
	}
	return fmt.Errorf("command %q has no handler", cmd.Key())
}

// renderResult prints the value when the call succeeded.
func (s *Session) renderResult(v interface{}, err error) error {
	if err != nil {
		return err
	}
	s.printJSON(v)
	return nil
}

func (s *Session) runSignIn(ctx context.Context, params command.Params) error {
	if err := s.deps.Auth.SignIn(ctx, params.Get("email"), params.Get("password")); err != nil {
		return err
	}
	user, err := s.deps.Auth.Verify(ctx)
	if err != nil {
		return err
	}
	if user != nil {
		s.printLine("signed in as %s", user.Username)
	} else {
		s.printLine("signed in")
	}
	return nil
}

func (s *Session) runSignUp(ctx context.Context, params command.Params) error {
	err := s.deps.Auth.SignUp(ctx, params.Get("username"), params.Get("email"), params.Get("password"))
	if err != nil {
		return err
	}
	if _, err := s.deps.Auth.Verify(ctx); err != nil {
		return err
	}
	s.printLine("account created, signed in")
	return nil
}

func (s *Session) runSignOut(ctx context.Context) error {
	if err := s.deps.Auth.SignOut(ctx); err != nil {
		return err
	}
	s.printLine("signed out")
	return nil
}

func (s *Session) runWhoAmI(ctx context.Context) error {
	user, err := s.deps.Auth.Verify(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		s.printLine("anonymous (user_id %s)", s.deps.Session.UserID())
		return nil
	}
	s.printJSON(user)
	return nil
}

func (s *Session) runProblemList(ctx context.Context) error {
	if cached, ok := s.catalogs.Get("problems"); ok {
		s.printJSON(cached)
		return nil
	}
	problems, err := s.deps.Grading.ListProblems(ctx)
	if err != nil {
		return err
	}
	s.catalogs.Set("problems", problems, 0)
	s.printJSON(problems)
	return nil
}

func (s *Session) runProblemGet(ctx context.Context, params command.Params) error {
	id, err := params.Int64("id")
	if err != nil {
		return err
	}
	return s.renderResult(s.deps.Grading.GetProblem(ctx, id))
}

func (s *Session) languages(ctx context.Context) ([]grading.Language, error) {
	if cached, ok := s.catalogs.Get("languages"); ok {
		return cached.([]grading.Language), nil
	}
	languages, err := s.deps.Grading.ListLanguages(ctx)
	if err != nil {
		return nil, err
	}
	s.catalogs.Set("languages", languages, 0)
	return languages, nil
}

func (s *Session) runLanguageList(ctx context.Context) error {
	languages, err := s.languages(ctx)
	if err != nil {
		return err
	}
	s.printJSON(languages)
	return nil
}

func (s *Session) runSubmissionCreate(ctx context.Context, params command.Params) error {
	problemID, err := params.Int64("problem_id")
	if err != nil {
		return err
	}
	languageID, err := params.Int64("language_id")
	if err != nil {
		return err
	}

	sourceCode := params.Get("source_code")
	if (sourceCode == "" || sourceCode == "_file_") && params.Get("source_file") != "" {
		sourceCode, err = command.ReadFile(params.Get("source_file"))
		if err != nil {
			return err
		}
	}

	languages, err := s.languages(ctx)
	if err != nil {
		return err
	}
	languageName := ""
	for _, lang := range languages {
		if lang.ID == languageID {
			languageName = lang.Name
			break
		}
	}
	if languageName == "" {
		return pkgerrors.Newf(pkgerrors.LanguageNotSupported, "language %d is not in the catalog", languageID)
	}

	id, err := s.deps.Grading.CreateSubmission(ctx, grading.SubmissionRequest{
		ProblemID:    problemID,
		LanguageID:   languageID,
		LanguageName: languageName,
		SourceCode:   sourceCode,
		UserID:       s.deps.Session.UserID(),
	})
	if err != nil {
		return err
	}
	s.printLine("submission %s created, watching...", id)

	params.Set("id", id)
	return s.runSubmissionWatch(ctx, params)
}

func (s *Session) runSubmissionGet(ctx context.Context, params command.Params) error {
	return s.renderResult(s.deps.Grading.GetSubmission(ctx, params.Get("id")))
}

// runSubmissionWatch streams tracker states until the submission settles,
// the fetch fails, or the context is cancelled.
func (s *Session) runSubmissionWatch(ctx context.Context, params command.Params) error {
	tr, err := s.deps.Tracker.Start(ctx, params.Get("id"))
	if err != nil {
		return err
	}
	defer tr.Stop()

	for {
		select {
		case state, ok := <-tr.Updates():
			if !ok {
				return nil
			}
			s.renderTrackerState(state)
		case <-ctx.Done():
			tr.Stop()
			return nil
		}
	}
}

func (s *Session) renderTrackerState(state tracker.State) {
	switch state.Phase {
	case tracker.PhaseLoading:
		s.printLine("fetching submission...")
	case tracker.PhasePolling:
		status := grading.DefaultStatus
		if state.Submission != nil {
			status = state.Submission.Status
		}
		s.printLine("evaluation in progress (%s)...", status)
	case tracker.PhaseSettled:
		s.printJSON(state.Submission)
	case tracker.PhaseFailed:
		s.printLine("tracking failed: %s", state.Err.Error())
	}
}

func (s *Session) runSubmissionList(ctx context.Context, params command.Params) error {
	problemID, err := params.Int64("problem_id")
	if err != nil {
		return err
	}
	limit, err := params.Int("limit")
	if err != nil {
		return err
	}
	skip, err := params.Int("skip")
	if err != nil {
		return err
	}
	if limit == 0 {
		limit = s.deps.PageSize
	}
	return s.renderResult(s.deps.Grading.ListSubmissions(ctx, grading.ListFilters{
		UserID:    params.Get("user_id"),
		ProblemID: problemID,
		Status:    params.Get("status"),
		Limit:     limit,
		Skip:      skip,
	}))
}

func (s *Session) history(ctx context.Context, params command.Params) ([]grading.Submission, error) {
	userID := params.Get("user_id")
	if userID == "" {
		userID = s.deps.Session.UserID()
	}
	return s.deps.Grading.ListSubmissionsByUser(ctx, userID, historyLimit)
}

func (s *Session) runProfileStats(ctx context.Context, params command.Params) error {
	subs, err := s.history(ctx, params)
	if err != nil {
		return err
	}
	s.printJSON(struct {
		Profile   stats.Profile        `json:"profile"`
		Languages []stats.LanguageStat `json:"languages"`
	}{
		Profile:   stats.ComputeProfile(subs),
		Languages: stats.LanguagesSorted(subs),
	})
	return nil
}

func (s *Session) runProfileSolved(ctx context.Context, params command.Params) error {
	subs, err := s.history(ctx, params)
	if err != nil {
		return err
	}
	s.printJSON(stats.SolvedProblems(subs))
	return nil
}

func (s *Session) runPQRSCreate(ctx context.Context, params command.Params) error {
	categoryID, err := params.Int64("category_id")
	if err != nil {
		return err
	}
	return s.renderResult(s.deps.PQRS.Create(ctx, pqrs.CreateRequest{
		Type:        params.Get("type"),
		CategoryID:  categoryID,
		Description: params.Get("description"),
	}))
}

func (s *Session) runPQRSGet(ctx context.Context, params command.Params) error {
	id, err := params.Int64("id")
	if err != nil {
		return err
	}
	return s.renderResult(s.deps.PQRS.Get(ctx, id))
}

func (s *Session) runPQRSStatus(ctx context.Context, params command.Params) error {
	id, err := params.Int64("id")
	if err != nil {
		return err
	}
	stateID, err := params.Int64("state_id")
	if err != nil {
		return err
	}
	if err := s.deps.PQRS.UpdateStatus(ctx, id, stateID, params.Get("comment")); err != nil {
		return err
	}
	s.printLine("ticket %d updated", id)
	return nil
}

func (s *Session) runPQRSHistory(ctx context.Context, params command.Params) error {
	id, err := params.Int64("id")
	if err != nil {
		return err
	}
	return s.renderResult(s.deps.PQRS.History(ctx, id))
}

func (s *Session) runProblemCreate(ctx context.Context, params command.Params) error {
	created, err := s.deps.Grading.CreateProblem(ctx, grading.Problem{
		Title:       params.Get("title"),
		Description: params.Get("description"),
		Difficulty:  params.Get("difficulty"),
	})
	if err != nil {
		return err
	}
	s.catalogs.Delete("problems")
	s.printJSON(created)
	return nil
}

func (s *Session) runProblemUpdate(ctx context.Context, params command.Params) error {
	id, err := params.Int64("id")
	if err != nil {
		return err
	}
	fields := map[string]interface{}{}
	for _, key := range []string{"title", "description", "difficulty"} {
		if params.Get(key) != "" {
			fields[key] = params.Get(key)
		}
	}
	if err := s.deps.Grading.UpdateProblem(ctx, id, fields); err != nil {
		return err
	}
	s.catalogs.Delete("problems")
	s.printLine("problem %d updated", id)
	return nil
}

func (s *Session) runProblemDelete(ctx context.Context, params command.Params) error {
	id, err := params.Int64("id")
	if err != nil {
		return err
	}
	if err := s.deps.Grading.DeleteProblem(ctx, id); err != nil {
		return err
	}
	s.catalogs.Delete("problems")
	s.printLine("problem %d deleted", id)
	return nil
}

func (s *Session) runSubmissionDelete(ctx context.Context, params command.Params) error {
	id := params.Get("id")
	if err := s.deps.Grading.DeleteSubmission(ctx, id); err != nil {
		return err
	}
	s.printLine("submission %s deleted", id)
	return nil
}

func (s *Session) runUserUpdate(ctx context.Context, params command.Params) error {
	fields := map[string]interface{}{}
	for _, key := range []string{"username", "email"} {
		if params.Get(key) != "" {
			fields[key] = params.Get(key)
		}
	}
	if len(fields) == 0 {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "nothing to update")
	}
	if err := s.deps.Auth.UpdateUser(ctx, params.Get("id"), fields); err != nil {
		return err
	}
	s.printLine("user %s updated", params.Get("id"))
	return nil
}

func (s *Session) runUserDelete(ctx context.Context, params command.Params) error {
	id := params.Get("id")
	if err := s.deps.Auth.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.printLine("user %s deleted", id)
	return nil
}

func (s *Session) runUserRole(ctx context.Context, params command.Params) error {
	raw := strings.Split(params.Get("roles"), ",")
	roles := make([]string, 0, len(raw))
	for _, role := range raw {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	if err := s.deps.Auth.ChangeRole(ctx, params.Get("id"), roles); err != nil {
		return err
	}
	s.printLine("roles updated")
	return nil
}
