package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

func newTestRequester(gen TextGenerator) *AIRequester {
	return NewAIRequester(logger.Nop(), gen, nil)
}

func TestAIRequesterFirstAttempt(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: "Here you go:\n" + validPlanJSON(t) + "\nEnjoy!"}}}
	p, err := newTestRequester(gen).Request(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Len(t, p.PrioritizedSkills, 5)
	assert.Equal(t, 1, gen.Calls())
	assert.Contains(t, gen.users[0], "for Ada Lovelace")
}

func TestAIRequesterRepairsOnce(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{
		{text: `{"summary":"short"}`},
		{text: validPlanJSON(t)},
	}}
	p, err := newTestRequester(gen).Request(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, 2, gen.Calls())
	assert.Equal(t, repairUserMessage, gen.users[1])
}

func TestAIRequesterGivesUpAfterTwoInvalid(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: `{"summary":"still not a plan"}`}}}
	_, err := newTestRequester(gen).Request(context.Background(), sampleInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAIGeneration))
	assert.Contains(t, err.Error(), "schema validation failed after retry")
	assert.Equal(t, 2, gen.Calls())
}

func TestAIRequesterNoJSONFailsImmediately(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: "I cannot help with that."}}}
	_, err := newTestRequester(gen).Request(context.Background(), sampleInput())
	assert.True(t, errors.Is(err, ErrAIGeneration))
	assert.Equal(t, 1, gen.Calls())
}

func TestAIRequesterTransportErrorFailsImmediately(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{err: errors.New("connection reset")}}}
	_, err := newTestRequester(gen).Request(context.Background(), sampleInput())
	assert.True(t, errors.Is(err, ErrAIGeneration))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 1, gen.Calls())
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{"```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{`first {"a":1} then {"b":2}`, `{"a":1} then {"b":2}`, true},
		{`no braces`, "", false},
		{`} backwards {`, "", false},
	}
	for _, tc := range cases {
		got, ok := extractJSONObject(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestSystemPromptEmbedsInput(t *testing.T) {
	in := sampleInput()
	in.CurrentSkills = nil
	prompt := buildSystemPrompt(in)
	assert.Contains(t, prompt, `transitioning from "Backend Engineer" to "AI/ML Engineer"`)
	assert.Contains(t, prompt, "- Current Skills: None specified")
	assert.Contains(t, prompt, "- Weekly Study Hours: 6")
	assert.Contains(t, prompt, "mini_project directly tied to AI/ML Engineer")
	assert.Contains(t, prompt, "Foundation (1-2)")
}

func TestExtractJSONArray(t *testing.T) {
	got, ok := ExtractJSONArray("Sure! [\"a\", \"b\"] hope that helps")
	require.True(t, ok)
	assert.Equal(t, `["a", "b"]`, got)

	_, ok = ExtractJSONArray("no array here")
	assert.False(t, ok)
	_, ok = ExtractJSONArray("] backwards [")
	assert.False(t, ok)
}
