package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedService struct {
	questions []string
	replies   map[string]string
	errs      map[string]error
	panics    map[string]bool
}

func (s *scriptedService) Respond(_ context.Context, q string) (string, error) {
	s.questions = append(s.questions, q)
	if s.panics[q] {
		panic("boom")
	}
	if err := s.errs[q]; err != nil {
		return "", err
	}
	return s.replies[q], nil
}

func run(t *testing.T, svc *scriptedService, input string) (string, *Loop) {
	t.Helper()
	var out bytes.Buffer
	l := NewLoop(svc, strings.NewReader(input), &out, DefaultOptions(), nil)
	require.NoError(t, l.Run(context.Background()))
	return out.String(), l
}

func TestLoop_AnswersUntilExit(t *testing.T) {
	svc := &scriptedService{replies: map[string]string{
		"What causes Y?": "Resposta para 'What causes Y?': X",
	}}
	out, l := run(t, svc, "What causes Y?\nEXIT\nnever asked\n")

	assert.Equal(t, "You: Chatbot: Resposta para 'What causes Y?': X\nYou: ", out)
	assert.Equal(t, []string{"What causes Y?"}, svc.questions)
	assert.Equal(t, Stopped, l.State())
}

func TestLoop_BlankInputIsNotDispatched(t *testing.T) {
	svc := &scriptedService{}
	out, _ := run(t, svc, "\n   \t\nexit\n")
	assert.Equal(t, 2, strings.Count(out, "Chatbot: Please ask a question."))
	assert.Empty(t, svc.questions)
}

func TestLoop_ExitMustMatchExactly(t *testing.T) {
	svc := &scriptedService{replies: map[string]string{"exit now": "?"}}
	_, _ = run(t, svc, "exit now\nExIt\r\n")
	assert.Equal(t, []string{"exit now"}, svc.questions)
}

func TestLoop_ErrorsAndPanicsKeepLooping(t *testing.T) {
	svc := &scriptedService{
		replies: map[string]string{"ok": "fine"},
		errs:    map[string]error{"bad": errors.New("model unavailable")},
		panics:  map[string]bool{"worse": true},
	}
	out, _ := run(t, svc, "bad\nworse\nok\n")

	assert.Contains(t, out, "Unexpected error: model unavailable\n")
	assert.Contains(t, out, "Unexpected error: panic: boom\n")
	assert.Contains(t, out, "Chatbot: fine\n")
	assert.Equal(t, []string{"bad", "worse", "ok"}, svc.questions)
}

func TestLoop_EndOfInputStops(t *testing.T) {
	out, l := run(t, &scriptedService{}, "")
	assert.Equal(t, "You: \n", out)
	assert.Equal(t, Stopped, l.State())
}

func TestLoop_CancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	l := NewLoop(&scriptedService{}, pr, &out, Options{Prompt: "> ", ExitKeyword: "sair"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
	assert.Equal(t, "> \nShutting down...\n", out.String())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "waiting", WaitingForInput.String())
	assert.Equal(t, "processing", Processing.String())
	assert.Equal(t, "stopped", Stopped.String())
}
