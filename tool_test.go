package gocontrol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, raw string) ToolResponse {
	t.Helper()
	var req ToolRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return HandleToolCall(req)
}

func TestHandleToolCall(t *testing.T) {
	t.Run("tf cancels", func(t *testing.T) {
		resp := callTool(t, `{"tool":"tf","params":{"num":[1,2],"den":[1,3,2]}}`)
		require.Empty(t, resp.Error)
		res := resp.Result.(map[string]interface{})
		assert.Len(t, res["num"], 1)
		assert.Len(t, res["den"], 2)
		assert.Equal(t, "strictly proper", res["properness"])
		assert.Contains(t, resp.LaTeX, `\frac`)
	})

	t.Run("tf with complex and string coefficients", func(t *testing.T) {
		resp := callTool(t, `{"tool":"tf","params":{"num":[[0,1]],"den":["1","2+0i"]}}`)
		require.Empty(t, resp.Error)
		res := resp.Result.(map[string]interface{})
		assert.Equal(t, []interface{}{[]float64{0, 1}}, res["num"])
		assert.Equal(t, []interface{}{1.0, 2.0}, res["den"])
	})

	t.Run("tf with symbolic coefficient", func(t *testing.T) {
		resp := callTool(t, `{"tool":"tf","params":{"num":[1],"den":[1,{"type":"sym","name":"a"}]}}`)
		require.Empty(t, resp.Error)
		assert.Equal(t, "1/(s + a)", resp.String)
	})

	t.Run("zpk", func(t *testing.T) {
		resp := callTool(t, `{"tool":"zpk","params":{"zeros":[-1],"poles":[-1,-2],"gain":3}}`)
		require.Empty(t, resp.Error)
		assert.Equal(t, "3/(s + 2)", resp.String)
	})

	t.Run("discrete", func(t *testing.T) {
		resp := callTool(t, `{"tool":"tf","params":{"num":[1],"den":[1,0.5],"dt":0.1}}`)
		require.Empty(t, resp.Error)
		assert.Equal(t, 0.1, resp.Result.(map[string]interface{})["dt"])
		assert.Contains(t, resp.String, "dt=0.1")
	})

	t.Run("binary", func(t *testing.T) {
		resp := callTool(t, `{"tool":"mul","params":{"a":{"num":[1,1],"den":[1,2]},"b":{"num":[1],"den":[1,1]}}}`)
		require.Empty(t, resp.Error)
		assert.Equal(t, "1/(s + 2)", resp.String)

		resp = callTool(t, `{"tool":"div","params":{"a":{"num":[1]},"b":{"num":[0]}}}`)
		assert.Contains(t, resp.Error, "invalid construction")
	})

	t.Run("feedback", func(t *testing.T) {
		resp := callTool(t, `{"tool":"feedback","params":{"g":{"num":[1],"den":[1,0]},"h":{"num":[1]}}}`)
		require.Empty(t, resp.Error)
		assert.Equal(t, "1/(s + 1)", resp.String)
	})

	t.Run("apart", func(t *testing.T) {
		resp := callTool(t, `{"tool":"apart","params":{"g":{"num":[1,3,3],"den":[1,1]}}}`)
		require.Empty(t, resp.Error)
		assert.Equal(t, "1/(s + 1) + s + 2", resp.String)
		assert.Equal(t, []int{1, -1, 0}, resp.Result.(map[string]interface{})["powers"])
	})

	t.Run("eval", func(t *testing.T) {
		resp := callTool(t, `{"tool":"eval","params":{"g":{"num":[1],"den":[1,1]},"s":[0,0]}}`)
		require.Empty(t, resp.Error)
		assert.Equal(t, 1.0, resp.Result)

		resp = callTool(t, `{"tool":"eval","params":{"g":{"num":[1],"den":[1,1]},"s":-1}}`)
		assert.Contains(t, resp.Error, "evaluation at a pole")
	})

	t.Run("bode", func(t *testing.T) {
		resp := callTool(t, `{"tool":"bode","params":{"g":{"num":[1],"den":[1,1]},"log_omega_min":-1,"log_omega_max":1,"omega_n":5}}`)
		require.Empty(t, resp.Error)
		res := resp.Result.(map[string]interface{})
		assert.Len(t, res["omega"], 5)
		assert.Len(t, res["phase"], 5)
		_, err := json.Marshal(resp)
		assert.NoError(t, err)
	})

	t.Run("subs", func(t *testing.T) {
		resp := callTool(t, `{"tool":"subs","params":{"g":{"num":[{"type":"sym","name":"a"}],"den":[1,{"type":"sym","name":"a"}]},"values":{"a":2}}}`)
		require.Empty(t, resp.Error)
		res := resp.Result.(map[string]interface{})
		assert.Equal(t, []interface{}{2.0}, res["num"])
		assert.Equal(t, []interface{}{1.0, 2.0}, res["den"])
		assert.Equal(t, []interface{}{-2.0}, res["poles"])
	})

	t.Run("tool spec", func(t *testing.T) {
		resp := callTool(t, `{"tool":"tool_spec"}`)
		require.Empty(t, resp.Error)
		spec := resp.Result.(string)
		var parsed struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		}
		require.NoError(t, json.Unmarshal([]byte(spec), &parsed))
		assert.Len(t, parsed.Tools, 12)
	})

	t.Run("errors", func(t *testing.T) {
		for name, raw := range map[string]string{
			"unknown tool":        `{"tool":"nope","params":{}}`,
			"missing num":         `{"tool":"tf","params":{"den":[1]}}`,
			"bad coefficient":     `{"tool":"tf","params":{"num":[true]}}`,
			"bad pair":            `{"tool":"tf","params":{"num":[[1,2,3]]}}`,
			"bad dt":              `{"tool":"tf","params":{"num":[1],"dt":"x"}}`,
			"negative dt":         `{"tool":"tf","params":{"num":[1],"dt":-1}}`,
			"missing operand":     `{"tool":"add","params":{"a":{"num":[1]}}}`,
			"operand not tf":      `{"tool":"add","params":{"a":{"num":[1]},"b":[1]}}`,
			"symbolic bad type":   `{"tool":"tf","params":{"num":[{"type":"bogus"}]}}`,
			"subs without values": `{"tool":"subs","params":{"g":{"num":[1]}}}`,
			"subs imaginary unit": `{"tool":"subs","params":{"g":{"num":[1]},"values":{"j":1}}}`,
		} {
			t.Run(name, func(t *testing.T) {
				assert.NotEmpty(t, callTool(t, raw).Error)
			})
		}
	})
}
