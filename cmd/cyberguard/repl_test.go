package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minhyannv/cyberguard-go/pkg/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	prompts   []string
	err       error
	panicWith any
}

func (f *fakeSender) SendPrompt(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func TestRunREPLExitCommandIsCaseInsensitive(t *testing.T) {
	for _, word := range []string{"exit", "Exit", "EXIT", "eXiT"} {
		t.Run(word, func(t *testing.T) {
			sender := &fakeSender{}
			var out bytes.Buffer

			err := runREPL(context.Background(), sender, replOptions{}, strings.NewReader(word+"\nnever sent\n"), &out)
			require.NoError(t, err)
			assert.Empty(t, sender.prompts)
			assert.Contains(t, out.String(), "👋 Goodbye!")
		})
	}
}

func TestRunREPLPaddedExitIsAPrompt(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer

	err := runREPL(context.Background(), sender, replOptions{}, strings.NewReader("  exit  \nexit\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"  exit  "}, sender.prompts)
	assert.Contains(t, out.String(), "👋 Goodbye!")
}

func TestRunREPLSkipsBlankLines(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer

	err := runREPL(context.Background(), sender, replOptions{}, strings.NewReader("\n   \n\t\nwhat is phishing?\nexit\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"what is phishing?"}, sender.prompts)
	assert.Equal(t, 5, strings.Count(out.String(), "You: "))
}

func TestRunREPLContinuesAfterDispatchError(t *testing.T) {
	sender := &fakeSender{err: &dispatch.Error{Kind: dispatch.KindRemote, StatusCode: 401}}
	var out bytes.Buffer

	err := runREPL(context.Background(), sender, replOptions{}, strings.NewReader("first\nsecond\nexit\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, sender.prompts)
}

func TestRunREPLEndsOnEOF(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer

	err := runREPL(context.Background(), sender, replOptions{}, strings.NewReader("only question"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"only question"}, sender.prompts)
	assert.NotContains(t, out.String(), "Goodbye")
}

func TestRunREPLPrintsBanner(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runREPL(context.Background(), &fakeSender{}, replOptions{}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "🔍 CyberGuard AI Test CLI")
	assert.Contains(t, out.String(), `Type your message or "exit" to quit`)
}

func TestRunREPLRequiresSenderAndInput(t *testing.T) {
	assert.Error(t, runREPL(context.Background(), nil, replOptions{}, strings.NewReader(""), nil))
	assert.Error(t, runREPL(context.Background(), &fakeSender{}, replOptions{}, nil, nil))
}

func TestRunOneShot(t *testing.T) {
	tests := []struct {
		name    string
		sender  *fakeSender
		wantErr error
	}{
		{name: "success", sender: &fakeSender{}},
		{name: "transport error is handled", sender: &fakeSender{err: &dispatch.Error{Kind: dispatch.KindTransport}}},
		{name: "remote error is handled", sender: &fakeSender{err: &dispatch.Error{Kind: dispatch.KindRemote, StatusCode: 500}}},
		{name: "malformed response fails", sender: &fakeSender{err: &dispatch.Error{Kind: dispatch.KindMalformedResponse}}, wantErr: errReported},
		{name: "blank prompt fails", sender: &fakeSender{err: dispatch.ErrEmptyPrompt}, wantErr: dispatch.ErrEmptyPrompt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runOneShot(context.Background(), tt.sender, []string{"hello", "world"})
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, []string{"hello world"}, tt.sender.prompts)
		})
	}
}

func TestRunOneShotRecoversPanic(t *testing.T) {
	err := runOneShot(context.Background(), &fakeSender{panicWith: "boom"}, []string{"hi"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, errReported))
	assert.Contains(t, err.Error(), "boom")
}

func TestJoinPrompt(t *testing.T) {
	assert.Equal(t, "hello world", joinPrompt([]string{"hello", "world"}))
	assert.Equal(t, "single", joinPrompt([]string{"single"}))
}
