package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLevelByEnv(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "prod").Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written in prod: %s", buf.String())
	}

	NewWithWriter(&buf, "dev").Debug("shown", "quote_id", 7)
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if line["msg"] != "shown" || line["quote_id"] != float64(7) {
		t.Fatalf("unexpected line %v", line)
	}
}
