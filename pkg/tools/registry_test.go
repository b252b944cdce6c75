package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	result *Result
	err    error
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub" }
func (t *stubTool) Schema() map[string]interface{} {
	return ObjectSchema(map[string]interface{}{}, nil)
}
func (t *stubTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	return t.result, t.err
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&stubTool{name: "echo", result: TextResult("hello")})

	res, err := r.Dispatch(context.Background(), "echo", nil)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, "hello", res.Text())
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	r := NewRegistry()

	res, err := r.Dispatch(context.Background(), "nope", nil)
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, CodeUnknownTool, res.Status.Code)
}

func TestRegistryDispatchPropagatesInfrastructureErrors(t *testing.T) {
	boom := errors.New("browser process died")
	r := NewRegistry()
	r.MustRegister(&stubTool{name: "broken", err: boom})

	_, err := r.Dispatch(context.Background(), "broken", nil)
	assert.ErrorIs(t, err, boom)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{name: "dup"}))
	assert.Error(t, r.Register(&stubTool{name: "dup"}))
	assert.Error(t, r.Register(&stubTool{name: ""}))
}

func TestRegistryListIsSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		&stubTool{name: "zeta"},
		&stubTool{name: "alpha"},
		&stubTool{name: "mid"},
	)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name())
	assert.Equal(t, "mid", list[1].Name())
	assert.Equal(t, "zeta", list[2].Name())
}

func TestResultHelpers(t *testing.T) {
	res := JSONResult(map[string]string{"k": "v"})
	require.Len(t, res.Content, 1)
	assert.Equal(t, ContentTypeJSON, res.Content[0].Type)
	assert.JSONEq(t, `{"k":"v"}`, string(res.Content[0].Data))

	errRes := ErrorResult("element_not_found", "no node matched")
	assert.True(t, errRes.Failed())
	assert.Equal(t, "no node matched", errRes.Text())
}
