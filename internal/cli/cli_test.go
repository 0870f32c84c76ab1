package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// cliEnv runs commands against one isolated workspace and decodes the JSON envelope.
type cliEnv struct {
	t   *testing.T
	dir string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	t.Setenv("TASKORIUM_CONFIG_DIR", t.TempDir())
	t.Setenv("TASKORIUM_DIR", "")
	t.Setenv("TASKORIUM_WORKSPACE", "")
	return cliEnv{t: t, dir: t.TempDir()}
}

func (e cliEnv) run(args ...string) map[string]any {
	e.t.Helper()
	full := append([]string{"--dir", e.dir}, args...)
	stdout, stderr, err := runCLI(e.t, full)
	if err != nil {
		e.t.Fatalf("command failed: taskorium %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		e.t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	if _, ok := env["data"]; !ok {
		e.t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	if hints, ok := env["_hints"]; ok && hints != nil {
		if _, ok := hints.([]any); !ok {
			e.t.Fatalf("expected _hints to be list; got %T", hints)
		}
	}
	return env
}

func (e cliEnv) fail(args ...string) (string, error) {
	e.t.Helper()
	full := append([]string{"--dir", e.dir}, args...)
	_, stderr, err := runCLI(e.t, full)
	if err == nil {
		e.t.Fatalf("expected taskorium %v to fail", args)
	}
	return string(stderr), err
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", env["data"])
	}
	return m
}

func dataList(t *testing.T, env map[string]any) []any {
	t.Helper()
	xs, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data list, got %T", env["data"])
	}
	return xs
}

func field(xs []any, key string) []string {
	out := []string{}
	for _, x := range xs {
		if m, ok := x.(map[string]any); ok {
			s, _ := m[key].(string)
			out = append(out, s)
		}
	}
	return out
}

func (e cliEnv) titles(columnID string) []string {
	e.t.Helper()
	return field(dataList(e.t, e.run("cards", "list", "--column", columnID)), "title")
}

// seedProject creates a project and returns its id and default column ids.
func (e cliEnv) seedProject(name string) (string, []string) {
	e.t.Helper()
	env := e.run("projects", "create", "--name", name)
	id, _ := dataMap(e.t, env)["id"].(string)
	if id == "" {
		e.t.Fatalf("expected project id; got %#v", env["data"])
	}
	cols, _ := env["meta"].(map[string]any)["columns"].([]any)
	return id, field(cols, "id")
}

func (e cliEnv) seedCards(columnID string, titles ...string) []string {
	e.t.Helper()
	ids := []string{}
	for _, title := range titles {
		env := e.run("cards", "create", "--column", columnID, "--title", title)
		ids = append(ids, dataMap(e.t, env)["id"].(string))
	}
	return ids
}

func TestCLI_CardMovesUseDropGaps(t *testing.T) {
	e := newCLIEnv(t)
	_, cols := e.seedProject("Launch")
	if len(cols) != 3 {
		t.Fatalf("expected 3 default columns, got %v", cols)
	}
	todo, doing := cols[0], cols[1]
	ids := e.seedCards(todo, "X", "Y", "Z")

	e.run("cards", "move", ids[1], "--to", "0")
	if diff := cmp.Diff([]string{"Y", "X", "Z"}, e.titles(todo)); diff != "" {
		t.Fatalf("todo (-want +got):\n%s", diff)
	}

	// Gap 3 is below Z: X lands last.
	e.run("cards", "move", ids[0], "--to", "3")
	if diff := cmp.Diff([]string{"Y", "Z", "X"}, e.titles(todo)); diff != "" {
		t.Fatalf("todo (-want +got):\n%s", diff)
	}

	res := dataMap(t, e.run("cards", "move", ids[2], "--column", doing, "--to", "99"))
	if to, _ := res["to"].(map[string]any); to["parentId"] != doing || to["index"] != float64(0) {
		t.Fatalf("unexpected destination %+v", res["to"])
	}
	if diff := cmp.Diff([]string{"Y", "X"}, e.titles(todo)); diff != "" {
		t.Fatalf("todo (-want +got):\n%s", diff)
	}

	noop := dataMap(t, e.run("cards", "move", ids[1], "--to", "1"))
	if noop["changed"] != false {
		t.Fatalf("expected no-op, got %+v", noop)
	}

	dry := dataMap(t, e.run("cards", "move", ids[1], "--column", doing, "--to", "0", "--dry-run"))
	if dry["parentId"] != doing || dry["index"] != float64(0) {
		t.Fatalf("unexpected dry-run target %+v", dry)
	}
	if diff := cmp.Diff([]string{"Z"}, e.titles(doing)); diff != "" {
		t.Fatalf("dry-run moved a card (-want +got):\n%s", diff)
	}
}

func TestCLI_DeleteColumnReflowsCards(t *testing.T) {
	e := newCLIEnv(t)
	projectID, cols := e.seedProject("P")
	todo, doing := cols[0], cols[1]
	e.seedCards(todo, "A")
	moved := e.seedCards(doing, "B", "C")

	res := dataMap(t, e.run("columns", "delete", doing))
	if res["reflowedTo"] != todo {
		t.Fatalf("expected reflow to %s, got %+v", todo, res)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, e.titles(todo)); diff != "" {
		t.Fatalf("todo (-want +got):\n%s", diff)
	}
	if _, err := e.fail("cards", "list", "--column", doing); ExitCode(err) != ExitNotFound {
		t.Fatalf("expected not-found exit code, got %d (%v)", ExitCode(err), err)
	}

	b := dataMap(t, e.run("board", projectID))
	bcols, _ := b["columns"].([]any)
	if len(bcols) != 2 {
		t.Fatalf("expected 2 columns on board, got %d", len(bcols))
	}

	evs := dataList(t, e.run("events", "list", "--entity", moved[0]))
	if diff := cmp.Diff([]string{"card.create"}, field(evs, "type")); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}

	doc := e.run("doctor", "--fail")
	if meta := doc["meta"].(map[string]any); meta["hasErrors"] != false {
		t.Fatalf("doctor reported errors: %+v", doc["data"])
	}
}

func TestCLI_ProjectsOrderAndCurrent(t *testing.T) {
	e := newCLIEnv(t)
	a, _ := e.seedProject("A")
	b, _ := e.seedProject("B")
	c, _ := e.seedProject("C")

	cur := dataMap(t, e.run("projects", "current"))
	if cur["id"] != a {
		t.Fatalf("first project should be current, got %v", cur["id"])
	}

	e.run("projects", "move", c, "--to", "0")
	if diff := cmp.Diff([]string{c, a, b}, field(dataList(t, e.run("projects", "list")), "id")); diff != "" {
		t.Fatalf("after move (-want +got):\n%s", diff)
	}

	e.run("projects", "reorder", b)
	if diff := cmp.Diff([]string{b, c, a}, field(dataList(t, e.run("projects", "list")), "id")); diff != "" {
		t.Fatalf("after reorder (-want +got):\n%s", diff)
	}

	e.run("projects", "use", b)
	e.run("projects", "delete", b)
	if _, err := e.fail("projects", "current"); err != errNoCurrentProject {
		t.Fatalf("expected no current project, got %v", err)
	}
	if _, err := e.fail("board"); err != errNoCurrentProject {
		t.Fatalf("expected no current project, got %v", err)
	}
}

func TestCLI_EditAndSubtasks(t *testing.T) {
	e := newCLIEnv(t)
	projectID, cols := e.seedProject("P")
	card := e.seedCards(cols[0], "Write copy")[0]

	edited := dataMap(t, e.run("projects", "edit", projectID, "--theme", "Saturn", "--description", "Q3"))
	if edited["theme"] != "saturn" || edited["description"] != "Q3" || edited["name"] != "P" {
		t.Fatalf("unexpected project %+v", edited)
	}
	if _, err := e.fail("projects", "edit", projectID, "--theme", "pluto"); ExitCode(err) != ExitValidation {
		t.Fatalf("expected validation exit code, got %v", err)
	}
	if _, err := e.fail("columns", "rename", cols[0], "--name", "  "); ExitCode(err) != ExitValidation {
		t.Fatalf("expected validation exit code, got %v", err)
	}

	e.run("cards", "edit", card, "--body", "**bold**")
	sub := dataMap(t, e.run("subtasks", "add", card, "--title", "Draft"))
	subID := sub["id"].(string)
	e.run("subtasks", "add", card, "--title", "Review")
	e.run("subtasks", "toggle", subID)

	list := e.run("subtasks", "list", card)
	if meta := list["meta"].(map[string]any); meta["completed"] != float64(1) || meta["total"] != float64(2) {
		t.Fatalf("unexpected progress %+v", meta)
	}

	show := dataMap(t, e.run("cards", "show", card))
	if show["completedCount"] != float64(1) {
		t.Fatalf("unexpected card detail %+v", show)
	}
	if c := show["card"].(map[string]any); c["body"] != "**bold**" {
		t.Fatalf("body not saved: %+v", c)
	}

	e.run("cards", "delete", card)
	if _, err := e.fail("subtasks", "toggle", subID); ExitCode(err) != ExitNotFound {
		t.Fatalf("expected subtask gone with its card, got %v", err)
	}
}

func TestCLI_NotFoundGoesToStderr(t *testing.T) {
	e := newCLIEnv(t)
	stderr, err := e.fail("cards", "show", "crd-missing")
	if ExitCode(err) != ExitNotFound {
		t.Fatalf("expected not-found exit code, got %d", ExitCode(err))
	}
	if !strings.Contains(stderr, "card not found: crd-missing") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestCLI_OutputFormats(t *testing.T) {
	e := newCLIEnv(t)
	e.seedProject("Formats")

	stdout, _, err := runCLI(t, []string{"--dir", e.dir, "--format", "yaml", "projects", "list"})
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(string(stdout), "name: Formats") {
		t.Fatalf("unexpected yaml:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, []string{"--dir", e.dir, "--format", "edn", "projects", "list"})
	if err != nil {
		t.Fatalf("edn: %v", err)
	}
	if !strings.Contains(string(stdout), `:name "Formats"`) {
		t.Fatalf("unexpected edn:\n%s", stdout)
	}

	if _, _, err := runCLI(t, []string{"--dir", e.dir, "--format", "xml", "projects", "list"}); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestCLI_BackupRoundTrip(t *testing.T) {
	e := newCLIEnv(t)
	_, cols := e.seedProject("P")
	e.seedCards(cols[0], "A", "B")
	out := t.TempDir()

	exp := dataMap(t, e.run("backup", "export", out))
	if exp["events"] != float64(3) {
		t.Fatalf("unexpected export %+v", exp)
	}

	other := cliEnv{t: t, dir: t.TempDir()}
	imp := dataMap(t, other.run("backup", "import", out))
	counts := imp["counts"].(map[string]any)
	if counts["cards"] != float64(2) || counts["columns"] != float64(3) {
		t.Fatalf("unexpected import counts %+v", counts)
	}
	if diff := cmp.Diff([]string{"A", "B"}, other.titles(cols[0])); diff != "" {
		t.Fatalf("imported cards (-want +got):\n%s", diff)
	}
}

func TestCLI_Docs(t *testing.T) {
	e := newCLIEnv(t)
	topics := dataMap(t, e.run("docs"))["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected docs topics")
	}
	got := dataMap(t, e.run("docs", "moving"))
	if !strings.Contains(got["markdown"].(string), "drop-gap") {
		t.Fatalf("unexpected moving doc")
	}
	if _, err := e.fail("docs", "nope"); ExitCode(err) != ExitNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCLI_PublishBoard(t *testing.T) {
	e := newCLIEnv(t)
	pid, cols := e.seedProject("Launch")
	e.seedCards(cols[1], "Ship")
	out := t.TempDir()

	if _, err := e.fail("publish"); err == nil {
		t.Fatalf("expected missing --to to fail")
	}
	res := dataMap(t, e.run("publish", "--to", out))
	written := res["written"].([]any)
	if len(written) != 2 {
		t.Fatalf("expected index + 1 card page, got %v", written)
	}
	b, err := os.ReadFile(filepath.Join(out, pid, "index.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(b), "## In Progress (1)") {
		t.Fatalf("unexpected index:\n%s", b)
	}
	if _, err := e.fail("publish", "--to", out); err == nil {
		t.Fatalf("expected existing files to fail without --overwrite")
	}
	e.run("publish", pid, "--to", out, "--overwrite")
}
