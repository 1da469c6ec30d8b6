package gocontrol

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/njchilds90/gocontrol/poly"
	"github.com/njchilds90/gocontrol/scalar"
	"github.com/njchilds90/gocontrol/symbolic"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest is a JSON tool call: {"tool": "...", "params": {...}}.
//
// Transfer functions are passed as {"num": [...], "den": [...]} objects.
// A coefficient is a JSON number, an [re, im] pair, a complex literal string
// such as "1+2i", or a symbolic expression object. Every tool accepts the
// optional top-level params "dt" (timestep) and "tol" (tolerance).
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	opts, err := toolOptions(req.Params)
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}

	getTF := func(key string) (*TransferFunction, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be a {num, den} object", key)
		}
		return decodeTF(m, opts)
	}
	getScalars := func(key string, required bool) ([]scalar.Scalar, error) {
		v, ok := req.Params[key]
		if !ok {
			if required {
				return nil, fmt.Errorf("missing param: %s", key)
			}
			return []scalar.Scalar{}, nil
		}
		return decodeScalars(key, v)
	}
	respond := func(g *TransferFunction) ToolResponse {
		return ToolResponse{Result: EncodeTF(g), LaTeX: g.LaTeX(), String: g.String()}
	}
	binaryTool := func(op func(*TransferFunction, any) (*TransferFunction, error), a, b string) ToolResponse {
		g, err := getTF(a)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		h, err := getTF(b)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		res, err := op(g, h)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(res)
	}

	switch req.Tool {
	case "tf":
		num, err := getScalars("num", true)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		den, err := getScalars("den", false)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if len(den) == 0 {
			den = []scalar.Scalar{scalar.One()}
		}
		g, err := New(poly.New(num...), poly.New(den...), opts...)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(g)

	case "zpk":
		z, err := getScalars("zeros", false)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		p, err := getScalars("poles", false)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		k := scalar.Scalar(scalar.One())
		if raw, ok := req.Params["gain"]; ok {
			if k, err = decodeScalar(raw); err != nil {
				return ToolResponse{Error: fmt.Sprintf("param gain: %v", err)}
			}
		}
		g, err := FromZPK(z, p, k, opts...)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(g)

	case "add":
		return binaryTool((*TransferFunction).Add, "a", "b")
	case "sub":
		return binaryTool((*TransferFunction).Sub, "a", "b")
	case "mul":
		return binaryTool((*TransferFunction).Mul, "a", "b")
	case "div":
		return binaryTool((*TransferFunction).Div, "a", "b")
	case "feedback":
		return binaryTool((*TransferFunction).Feedback, "g", "h")

	case "apart":
		g, err := getTF("g")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		exp, err := g.Apart()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: EncodeExpansion(exp), String: exp.String()}

	case "eval":
		g, err := getTF("g")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		raw, ok := req.Params["s"]
		if !ok {
			return ToolResponse{Error: "missing param: s"}
		}
		s, err := decodeScalar(raw)
		if err != nil {
			return ToolResponse{Error: fmt.Sprintf("param s: %v", err)}
		}
		v, err := g.EvalScalar(s)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: EncodeScalar(v), LaTeX: v.LaTeX(), String: v.String()}

	case "bode":
		g, err := getTF("g")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		cfg := BodeConfig{}
		if v, ok := req.Params["log_omega_min"].(float64); ok {
			cfg.LogOmegaMin = v
		}
		if v, ok := req.Params["log_omega_max"].(float64); ok {
			cfg.LogOmegaMax = v
		}
		if v, ok := req.Params["omega_n"].(float64); ok {
			cfg.OmegaN = int(v)
		}
		if v, ok := req.Params["phase_shift"].(float64); ok {
			cfg.PhaseShift = int(v)
		}
		data, err := g.Bode(cfg)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: map[string]interface{}{
			"omega":     data.Omega,
			"magnitude": data.Magnitude,
			"phase":     data.Phase,
		}}

	case "subs":
		g, err := getTF("g")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		raw, ok := req.Params["values"].(map[string]interface{})
		if !ok {
			return ToolResponse{Error: "param values must be a {name: value} object"}
		}
		values := make(map[string]scalar.Scalar, len(raw))
		for name, v := range raw {
			if values[name], err = decodeScalar(v); err != nil {
				return ToolResponse{Error: fmt.Sprintf("param values.%s: %v", name, err)}
			}
		}
		res, err := g.Subs(values)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(res)

	case "tool_spec":
		return ToolResponse{Result: ToolSpec()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func toolOptions(params map[string]interface{}) ([]Option, error) {
	var opts []Option
	if v, ok := params["dt"]; ok {
		dt, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("param dt must be a number")
		}
		opts = append(opts, WithTimestep(dt))
	}
	if v, ok := params["tol"]; ok {
		tol, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("param tol must be a number")
		}
		opts = append(opts, WithTolerance(tol))
	}
	return opts, nil
}

func decodeTF(m map[string]interface{}, opts []Option) (*TransferFunction, error) {
	rawNum, ok := m["num"]
	if !ok {
		return nil, fmt.Errorf("transfer function: missing num")
	}
	num, err := decodeScalars("num", rawNum)
	if err != nil {
		return nil, err
	}
	den := []scalar.Scalar{scalar.One()}
	if rawDen, ok := m["den"]; ok {
		if den, err = decodeScalars("den", rawDen); err != nil {
			return nil, err
		}
	}
	return New(poly.New(num...), poly.New(den...), opts...)
}

func decodeScalars(key string, v interface{}) ([]scalar.Scalar, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be array", key)
	}
	out := make([]scalar.Scalar, len(raw))
	for i, r := range raw {
		s, err := decodeScalar(r)
		if err != nil {
			return nil, fmt.Errorf("param %s[%d]: %w", key, i, err)
		}
		out[i] = s
	}
	return out, nil
}

func decodeScalar(v interface{}) (scalar.Scalar, error) {
	switch x := v.(type) {
	case float64:
		return scalar.Real(x), nil
	case string:
		c, err := strconv.ParseComplex(x, 128)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", x)
		}
		return scalar.Complex(c), nil
	case []interface{}:
		if len(x) != 2 {
			return nil, fmt.Errorf("complex value must be [re, im]")
		}
		re, ok1 := x[0].(float64)
		im, ok2 := x[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("complex value must be [re, im] numbers")
		}
		return scalar.Complex(complex(re, im)), nil
	case map[string]interface{}:
		e, err := symbolic.FromJSON(x)
		if err != nil {
			return nil, err
		}
		return scalar.FromExpr(e), nil
	}
	return nil, fmt.Errorf("unsupported value %v", v)
}

// EncodeScalar is the JSON form of a scalar: a number, an [re, im] pair, or
// a symbolic expression object.
func EncodeScalar(s scalar.Scalar) interface{} {
	if c, ok := s.Complex(); ok {
		if imag(c) == 0 {
			return real(c)
		}
		return []float64{real(c), imag(c)}
	}
	return symbolic.JSONObject(s.Expr())
}

func encodeScalars(xs []scalar.Scalar) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = EncodeScalar(x)
	}
	return out
}

// EncodeTF is the JSON form of a transfer function.
func EncodeTF(g *TransferFunction) map[string]interface{} {
	return map[string]interface{}{
		"num":        encodeScalars(g.num.Coeffs()),
		"den":        encodeScalars(g.den.Coeffs()),
		"zeros":      encodeScalars(g.z),
		"poles":      encodeScalars(g.p),
		"gain":       EncodeScalar(g.k),
		"dt":         g.dt,
		"properness": g.Properness().String(),
	}
}

// EncodeExpansion is the JSON form of a partial-fraction expansion.
func EncodeExpansion(e *Expansion) map[string]interface{} {
	return map[string]interface{}{
		"poles":  encodeScalars(e.Poles),
		"coeffs": encodeScalars(e.Coeffs),
		"powers": e.Powers,
		"n":      e.N,
	}
}

// ToolSpec returns the JSON schema of every tool.
func ToolSpec() string {
	tf := "object"
	tools := []map[string]interface{}{
		ts("tf", "Build num/den with pole/zero cancellation", []string{"num"}, map[string]string{"num": "array", "den": "array", "dt": "number", "tol": "number"}),
		ts("zpk", "Build gain*prod(s-z)/prod(s-p)", []string{}, map[string]string{"zeros": "array", "poles": "array", "gain": "number", "dt": "number", "tol": "number"}),
		ts("add", "Sum a + b", []string{"a", "b"}, map[string]string{"a": tf, "b": tf}),
		ts("sub", "Difference a - b", []string{"a", "b"}, map[string]string{"a": tf, "b": tf}),
		ts("mul", "Product a * b", []string{"a", "b"}, map[string]string{"a": tf, "b": tf}),
		ts("div", "Quotient a / b", []string{"a", "b"}, map[string]string{"a": tf, "b": tf}),
		ts("feedback", "Closed loop g/(1+g*h)", []string{"g", "h"}, map[string]string{"g": tf, "h": tf}),
		ts("apart", "Partial-fraction expansion", []string{"g"}, map[string]string{"g": tf}),
		ts("eval", "Evaluate g at a point s", []string{"g", "s"}, map[string]string{"g": tf, "s": "array"}),
		ts("bode", "Magnitude and unwrapped phase over a log frequency grid", []string{"g"}, map[string]string{"g": tf, "log_omega_min": "number", "log_omega_max": "number", "omega_n": "integer", "phase_shift": "integer"}),
		ts("subs", "Bind coefficient parameters of g to values", []string{"g", "values"}, map[string]string{"g": tf, "values": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
