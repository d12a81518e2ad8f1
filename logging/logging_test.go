package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T, fn func()) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()

	fn()

	var out map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &out); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return out
}

func TestLogDefaultsService(t *testing.T) {
	out := captureLog(t, func() {
		Log(Fields{OrderID: "abc", Status: "ok"})
	})
	if out["service"] != Service {
		t.Errorf("service = %v", out["service"])
	}
	if out["order_id"] != "abc" {
		t.Errorf("order_id = %v", out["order_id"])
	}
	if _, ok := out["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
	if _, ok := out["user_id"]; ok {
		t.Error("zero user_id should be omitted")
	}
}

func TestFailure(t *testing.T) {
	out := captureLog(t, func() {
		Failure("checkout", errors.New("boom"), Fields{UserID: 7})
	})
	if out["step"] != "checkout" || out["status"] != "error" || out["error"] != "boom" {
		t.Errorf("unexpected fields: %v", out)
	}
	if out["user_id"] != float64(7) {
		t.Errorf("user_id = %v", out["user_id"])
	}
}
