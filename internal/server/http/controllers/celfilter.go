package controllers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/ar0085/status-page/internal/notify"
)

// celFilter wraps a compiled CEL program evaluated against outbound status
// updates on the SSE stream. When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("tenant_id", cel.IntType),
		cel.Variable("action", cel.StringType),
		// Expose the payload as parsed JSON for field filtering
		cel.Variable("json", cel.DynType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

func payloadAction(p notify.Payload) string {
	switch v := p.(type) {
	case notify.ServicePayload:
		return string(v.Action)
	case notify.IncidentPayload:
		return string(v.Action)
	case notify.MaintenancePayload:
		return string(v.Action)
	}
	return ""
}

// Eval evaluates the compiled expression against an envelope. Evaluation
// errors drop the envelope rather than letting it through.
func (f celFilter) Eval(env notify.Envelope) bool {
	if !f.enabled {
		return true
	}
	var jsonObj any
	if b, err := json.Marshal(env.Payload); err == nil {
		_ = json.Unmarshal(b, &jsonObj)
	}
	out, _, err := f.prog.Eval(map[string]any{
		"kind":      string(env.Kind),
		"tenant_id": int64(env.Tenant),
		"action":    payloadAction(env.Payload),
		"json":      jsonObj,
		"now_ms":    time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
