package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-intake/pkg/schema"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	textAreas    []string
	inputErr     error
	infoMessages []string
	inputCfgs    []InputConfig
	selectCfgs   []SelectConfig
	textCfgs     []TextAreaConfig
	inputPos     int
	selectPos    int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.textCfgs = append(s.textCfgs, cfg)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func commitSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]map[string]any{
		{"label": "type", "choices": []string{"bug", "feature", "trivial"}},
		{"label": "summary"},
		{"label": "jira", "matches": `PROJ-\d+`, "condition": []any{"!=", "type", "trivial"}},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	return s
}

func TestRun_CollectsInOrder(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0},
		inputs:    []string{"crash on start", "PROJ-42"},
	}
	r, err := New(commitSchema(t), WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	rec, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rec.Valid() {
		t.Fatalf("unexpected errors: %v", rec.Errors())
	}
	if got, _ := rec.StringValue("type"); got != "bug" {
		t.Errorf("type: got %q", got)
	}
	if got, _ := rec.StringValue("summary"); got != "crash on start" {
		t.Errorf("summary: got %q", got)
	}
	if got, _ := rec.StringValue("jira"); got != "PROJ-42" {
		t.Errorf("jira: got %q", got)
	}

	if len(driver.selectCfgs) != 1 {
		t.Fatalf("choice field should render as a select: %d", len(driver.selectCfgs))
	}
	cfg := driver.selectCfgs[0]
	if cfg.Message != "Type" {
		t.Errorf("select message: got %q", cfg.Message)
	}
	if len(cfg.Options) != 3 || cfg.Options[0] != "bug" {
		t.Errorf("select options: got %v", cfg.Options)
	}
}

func TestRun_SkipsInapplicableFields(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{2},
		inputs:    []string{"fix typo"},
	}
	r, err := New(commitSchema(t), WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	rec, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rec.Valid() {
		t.Fatalf("unexpected errors: %v", rec.Errors())
	}
	if driver.inputPos != 1 {
		t.Fatalf("jira should not be prompted for trivial changes: %d inputs consumed", driver.inputPos)
	}
	if _, err := rec.Get("jira"); !errors.Is(err, schema.ErrNotResolved) {
		t.Errorf("jira lookup: got %v, want ErrNotResolved", err)
	}
}

func TestRun_RetriesInvalidAnswer(t *testing.T) {
	s, err := schema.New([]map[string]any{
		{"label": "zip_code", "matches": `^\d{5}$`},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{inputs: []string{"abc", "10001"}}
	r, err := New(s, WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	rec, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rec.Valid() {
		t.Fatalf("unexpected errors: %v", rec.Errors())
	}
	if got, _ := rec.StringValue("zip_code"); got != "10001" {
		t.Errorf("zip_code: got %q", got)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "Must match the pattern") {
		t.Errorf("expected one validation message, got %v", driver.infoMessages)
	}
}

func TestRun_RetriesSelectOutOfRange(t *testing.T) {
	s, err := schema.New([]map[string]any{
		{"label": "type", "choices": []string{"bug", "feature"}},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{selectIdx: []int{5, 1}}
	r, err := New(s, WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	rec, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, _ := rec.StringValue("type"); got != "feature" {
		t.Errorf("type: got %q", got)
	}
	if len(driver.infoMessages) != 1 {
		t.Errorf("expected one out-of-range message, got %v", driver.infoMessages)
	}
}

func TestRun_OptionalBlankAnswerStaysOut(t *testing.T) {
	s, err := schema.New([]map[string]any{
		{"label": "notes", "required": false},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{inputs: []string{""}}
	r, err := New(s, WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	rec, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rec.Valid() {
		t.Fatalf("unexpected errors: %v", rec.Errors())
	}
	if got, _ := rec.StringValue("notes"); got != "" {
		t.Errorf("notes: got %q", got)
	}
	if len(rec.Input()) != 0 {
		t.Errorf("blank answers must not enter the raw data: %v", rec.Input())
	}
}

func TestRun_DefaultsOverrideSchema(t *testing.T) {
	s, err := schema.New([]map[string]any{
		{"label": "branch", "default": "main"},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{inputs: []string{"develop"}}
	r, err := New(s, WithDriver(driver), WithDefaults(map[string]string{"branch": "develop"}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.inputCfgs) != 1 || driver.inputCfgs[0].Default != "develop" {
		t.Errorf("caller default should reach the prompt: %+v", driver.inputCfgs)
	}
}

func TestRun_MultilineUsesTextArea(t *testing.T) {
	s, err := schema.New([]map[string]any{
		{"label": "description", "multiline": true},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{textAreas: []string{"line one\nline two"}}
	r, err := New(s, WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	rec, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if driver.textPos != 1 || len(driver.inputCfgs) != 0 {
		t.Fatalf("multiline field should render as a text area")
	}
	if got, _ := rec.StringValue("description"); got != "line one\nline two" {
		t.Errorf("description: got %q", got)
	}
}

func TestRun_HelpTextComposition(t *testing.T) {
	s, err := schema.New([]map[string]any{
		{
			"label":    "status",
			"help":     "Pick one.",
			"required": false,
			"choices":  []string{"open", "closed"},
		},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{selectIdx: []int{0}}
	r, err := New(s, WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Pick one. Optional. Choices: open, closed."
	if driver.selectCfgs[0].Help != want {
		t.Errorf("help: got %q, want %q", driver.selectCfgs[0].Help, want)
	}
}

func TestRun_PropagatesAbort(t *testing.T) {
	s, err := schema.New([]map[string]any{{"label": "name"}})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{inputErr: ErrAborted}
	r, err := New(s, WithDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := r.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("run: got %v, want ErrAborted", err)
	}
}

func TestRun_ErrorPrefixApplied(t *testing.T) {
	s, err := schema.New([]map[string]any{{"label": "name"}})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	driver := &stubDriver{inputs: []string{"", "Ada"}}
	r, err := New(s, WithDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.HasPrefix(driver.infoMessages[0], "! ") {
		t.Errorf("error prefix missing: %v", driver.infoMessages)
	}
}

func TestNew_RequiresSchema(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil schema")
	}
}
