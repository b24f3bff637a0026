package birch

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDebugFrameStats(t *testing.T) {
	var buf bytes.Buffer
	s, _, _ := twoRootScene()
	r := NewRenderer(RendererOptions{Logger: debugLogger(&buf), Debug: true})
	r.LoadScene(s)
	r.Draw(&opLog{}, r.Plan(originCamera()))

	out := buf.String()
	for _, want := range []string{"msg=frame", "msg=\"frame counts\"", "birch.layers=2", "birch.picture_misses=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if h, m := r.Pictures().Stats(); h != 0 || m != 0 {
		t.Error("picture stats not reset after the frame")
	}
}

func TestDebugOffIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	s, _, _ := twoRootScene()
	r := NewRenderer(RendererOptions{Logger: debugLogger(&buf)})
	r.LoadScene(s)
	r.Draw(&opLog{}, r.Plan(originCamera()))
	if strings.Contains(buf.String(), "frame") {
		t.Errorf("unexpected frame log: %s", buf.String())
	}
}

func TestDebugTreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene("deep", nil)
	parent := NodeID(0)
	for i := 0; i <= debugMaxTreeDepth+1; i++ {
		id, err := s.Insert(parent, NewGroup("g"))
		if err != nil {
			t.Fatal(err)
		}
		parent = id
	}
	r := NewRenderer(RendererOptions{Logger: debugLogger(&buf)})
	r.LoadScene(s)
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("no depth warning: %s", buf.String())
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene("wide", nil)
	root, _ := s.Insert(0, NewGroup("root"))
	for i := 0; i <= debugMaxChildCount; i++ {
		s.Insert(root, NewGroup("child"))
	}
	r := NewRenderer(RendererOptions{Logger: debugLogger(&buf), Debug: true})
	r.LoadScene(s)
	if !strings.Contains(buf.String(), "node has too many children") {
		t.Errorf("no child count warning")
	}

	buf.Reset()
	r = NewRenderer(RendererOptions{Logger: debugLogger(&buf)})
	r.LoadScene(s)
	if strings.Contains(buf.String(), "node has too many children") {
		t.Error("child count checked outside debug mode")
	}
}
