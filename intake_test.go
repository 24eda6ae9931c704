package intake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/prompt"
)

const commitYAML = `- label: type
  choices: [feat, fix, chore]
- label: summary
  help: One line summary.
- label: jira_id
  matches: 'PROJ-\d+'
  condition: ["!=", "type", "chore"]
`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commit.yaml")
	if err := os.WriteFile(path, []byte(commitYAML), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	s, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"type", "summary", "jira_id"}
	if diff := cmp.Diff(want, s.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(commitYAML))
	}))
	defer srv.Close()

	s, err := Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
}

func TestParseThroughFacade(t *testing.T) {
	s := MustNew([]map[string]any{
		{"label": "summary"},
		{"label": "count", "required": false},
	})

	in, err := InputOf(map[string]any{"summary": "tighten the parser", "extra": "x"})
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	rec := s.Parse(in, Strict())
	if rec.Valid() {
		t.Fatalf("expected strict parse to flag the extra key")
	}
	got := rec.Errors().Messages()
	want := []string{`Labels "extra" not present in schema.`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

type scriptedDriver struct {
	inputs  []string
	selects []int
	in, sel int
}

func (d *scriptedDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	answer := d.inputs[d.in]
	d.in++
	return answer, nil
}

func (d *scriptedDriver) Select(_ context.Context, _ prompt.SelectConfig) (int, error) {
	idx := d.selects[d.sel]
	d.sel++
	return idx, nil
}

func (d *scriptedDriver) TextArea(_ context.Context, _ prompt.TextAreaConfig) (string, error) {
	return d.Input(nil, prompt.InputConfig{})
}

func (d *scriptedDriver) Info(_ context.Context, _ string) error { return nil }

func TestPrompt(t *testing.T) {
	s := MustNew([]map[string]any{
		{"label": "type", "choices": []string{"feat", "fix"}},
		{"label": "summary"},
	})

	driver := &scriptedDriver{inputs: []string{"add the loader"}, selects: []int{1}}
	rec, err := Prompt(context.Background(), s, prompt.WithDriver(driver))
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if !rec.Valid() {
		t.Fatalf("unexpected errors: %v", rec.Errors())
	}
	typ, err := rec.StringValue("type")
	if err != nil {
		t.Fatalf("lookup type: %v", err)
	}
	if typ != "fix" {
		t.Fatalf("type = %q, want %q", typ, "fix")
	}
}

func TestRender(t *testing.T) {
	s := MustNew([]map[string]any{
		{"label": "type"},
		{"label": "summary"},
	})
	rec := s.Parse(Input{"type": String("feat"), "summary": String("wire the facade")})

	got, err := Render("{{ type }}: {{ summary }}", rec)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "feat: wire the facade" {
		t.Fatalf("rendered = %q, want %q", got, "feat: wire the facade")
	}
}
