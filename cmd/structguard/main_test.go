package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leofalp/structguard/schemas/qa"
)

// fakeOllama serves /api/chat with scripted replies and records the prompts.
type fakeOllama struct {
	mu      sync.Mutex
	replies []string
	prompts []string
	formats []json.RawMessage
	models  []string
}

func (f *fakeOllama) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Format json.RawMessage `json:"format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		f.mu.Lock()
		idx := len(f.prompts)
		f.prompts = append(f.prompts, req.Messages[len(req.Messages)-1].Content)
		f.formats = append(f.formats, req.Format)
		f.models = append(f.models, req.Model)
		if idx >= len(f.replies) {
			idx = len(f.replies) - 1
		}
		reply := f.replies[idx]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   req.Model,
			"message": map[string]string{"role": "assistant", "content": reply},
			"done":    true,
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRUCTGUARD_PROVIDER", "STRUCTGUARD_MODEL", "STRUCTGUARD_BASE_URL",
		"STRUCTGUARD_API_KEY", "STRUCTGUARD_MAX_ATTEMPTS", "STRUCTGUARD_MAX_RETRIES",
		"STRUCTGUARD_TIMEOUT", "STRUCTGUARD_REPAIR", "STRUCTGUARD_LOG_LEVEL",
		"STRUCTGUARD_LOG_FORMAT", "OLLAMA_HOST",
	} {
		t.Setenv(key, "")
	}
}

func TestRun_Demo(t *testing.T) {
	clearEnv(t)
	fake := &fakeOllama{replies: []string{
		"```json\n" + `{"answer":"Revenue was $50M, up 15% YoY","citations":[{"source_id":"doc_001","quote":"revenue of $50M in Q3, up 15% YoY"}]}` + "\n```",
	}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--demo", "--base-url", server.URL}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	var got qa.Response
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if got.Answer != "Revenue was $50M, up 15% YoY" || len(got.Citations) != 1 {
		t.Errorf("unexpected answer %+v", got)
	}
	if !strings.Contains(stdout.String(), "\n  \"answer\"") {
		t.Errorf("output should be indented, got %s", stdout.String())
	}

	if len(fake.prompts) != 1 {
		t.Fatalf("expected 1 completion, got %d", len(fake.prompts))
	}
	if fake.prompts[0] != qa.BuildPrompt(qa.DemoContext, qa.DemoQuestion) {
		t.Errorf("unexpected prompt %q", fake.prompts[0])
	}
	if fake.models[0] != "llama3.2" {
		t.Errorf("model = %q, want llama3.2", fake.models[0])
	}
}

func TestRun_RetriesWithFeedback(t *testing.T) {
	clearEnv(t)
	fake := &fakeOllama{replies: []string{
		`The revenue was $50M.`,
		`{"answer": "Revenue was $50M"}`,
	}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--base-url", server.URL,
		"--context", "Document A (id: doc_001): revenue of $50M in Q3",
		"--question", "What was revenue?",
		"--model", "qwen2.5",
	}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	if len(fake.prompts) != 2 {
		t.Fatalf("expected 2 completions, got %d", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[1], "Your previous response was invalid:\nJSON decode error: ") {
		t.Errorf("second prompt should carry the parse error, got %q", fake.prompts[1])
	}
	if fake.models[1] != "qwen2.5" {
		t.Errorf("model = %q, want qwen2.5", fake.models[1])
	}
	if !strings.Contains(stderr.String(), "msg=usage attempts=2 rejected=1 completions=2") {
		t.Errorf("stderr should log the usage summary, got:\n%s", stderr.String())
	}
}

func TestRun_Exhausted(t *testing.T) {
	clearEnv(t)
	fake := &fakeOllama{replies: []string{`{"citations": []}`}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--base-url", server.URL, "--demo", "--max-attempts", "2",
	}, &stdout, &stderr)

	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be printed on stdout, got %q", stdout.String())
	}
	if len(fake.prompts) != 2 {
		t.Errorf("expected 2 completions, got %d", len(fake.prompts))
	}
	if !strings.Contains(stderr.String(), "failed after 2 attempts") {
		t.Errorf("stderr should report exhaustion, got:\n%s", stderr.String())
	}
}

func TestRun_ServiceFault(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--base-url", server.URL, "--demo"}, &stdout, &stderr)

	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "completion failed on attempt 1") {
		t.Errorf("stderr should report the service fault, got:\n%s", stderr.String())
	}
}

func TestRun_ContextSources(t *testing.T) {
	clearEnv(t)
	fake := &fakeOllama{replies: []string{`{"answer": "22%"}`}}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", fake.handler(t))
	mux.HandleFunc("/ceo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><p>We expect <em>strong</em> growth.</p></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	path := filepath.Join(t.TempDir(), "margin.txt")
	if err := os.WriteFile(path, []byte("Operating margin improved to 22%.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--base-url", server.URL,
		"--context", "Revenue was $50M.",
		"--context-file", path,
		"--context-url", server.URL + "/ceo",
		"--question", "What was the margin?",
	}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	prompt := fake.prompts[0]
	for _, want := range []string{
		"Document A (id: doc_001): Revenue was $50M.",
		"Document B (id: doc_002): Operating margin improved to 22%.",
		"Document C (id: doc_003): We expect *strong* growth.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestRun_Constrain(t *testing.T) {
	clearEnv(t)
	fake := &fakeOllama{replies: []string{`{"answer": "ok"}`}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--base-url", server.URL, "--demo", "--constrain"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	var format map[string]any
	if err := json.Unmarshal(fake.formats[0], &format); err != nil {
		t.Fatalf("format should be a JSON schema object, got %s", fake.formats[0])
	}
	if format["type"] != "object" {
		t.Errorf("unexpected format %v", format)
	}
}

func TestRun_ConstrainOpenAIStrictSchema(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRUCTGUARD_API_KEY", "sk-test")

	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		body = raw
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{\"answer\":\"ok\",\"citations\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--provider", "openai", "--model", "gpt-4o-mini", "--base-url", server.URL, "--demo", "--constrain",
	}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	var req struct {
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Strict bool           `json:"strict"`
				Schema map[string]any `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("decode request %s: %v", body, err)
	}
	if req.ResponseFormat.Type != "json_schema" || !req.ResponseFormat.JSONSchema.Strict {
		t.Fatalf("unexpected response_format in %s", body)
	}
	checkStrictObject(t, "(root)", req.ResponseFormat.JSONSchema.Schema)
}

// checkStrictObject asserts the strict structured output rules on every
// object schema: additionalProperties is false and every property is required.
func checkStrictObject(t *testing.T, path string, node map[string]any) {
	t.Helper()

	if node["type"] == "object" {
		if ap, ok := node["additionalProperties"]; !ok || ap != false {
			t.Errorf("%s: additionalProperties = %v, want false", path, ap)
		}
		required := map[string]bool{}
		if list, ok := node["required"].([]any); ok {
			for _, name := range list {
				if s, ok := name.(string); ok {
					required[s] = true
				}
			}
		}
		props, _ := node["properties"].(map[string]any)
		for name, prop := range props {
			if !required[name] {
				t.Errorf("%s: property %q is not required", path, name)
			}
			if child, ok := prop.(map[string]any); ok {
				checkStrictObject(t, path+"."+name, child)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		checkStrictObject(t, path+"[]", items)
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "context without question",
			args: []string{"--context", "something"},
			want: "provide --question or use --demo",
		},
		{
			name: "unknown provider",
			args: []string{"--provider", "gemini", "--demo"},
			want: `unknown provider "gemini"`,
		},
		{
			name: "zero attempts",
			args: []string{"--max-attempts", "0", "--demo"},
			want: "max_attempts must be at least 1",
		},
		{
			name: "unknown flag",
			args: []string{"--verbose"},
			want: "flag provided but not defined",
		},
		{
			name: "positional argument",
			args: []string{"--demo", "extra"},
			want: "unexpected arguments: extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			if code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr should contain %q, got:\n%s", tt.want, stderr.String())
			}
		})
	}
}

func TestBuildInput(t *testing.T) {
	tests := []struct {
		name         string
		flags        cliFlags
		wantContext  string
		wantQuestion string
	}{
		{
			name:         "no input runs the demo",
			flags:        cliFlags{},
			wantContext:  qa.DemoContext,
			wantQuestion: qa.DemoQuestion,
		},
		{
			name:         "demo wins over input",
			flags:        cliFlags{demo: true, context: "c", question: "q"},
			wantContext:  qa.DemoContext,
			wantQuestion: qa.DemoQuestion,
		},
		{
			name:         "literal context is kept verbatim",
			flags:        cliFlags{context: "Document A (id: x): y", question: "q"},
			wantContext:  "Document A (id: x): y",
			wantQuestion: "q",
		},
		{
			name:         "question without context",
			flags:        cliFlags{question: "q"},
			wantContext:  "",
			wantQuestion: "q",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotContext, gotQuestion, err := buildInput(context.Background(), &tt.flags)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotContext != tt.wantContext || gotQuestion != tt.wantQuestion {
				t.Errorf("got (%q, %q), want (%q, %q)", gotContext, gotQuestion, tt.wantContext, tt.wantQuestion)
			}
		})
	}
}
