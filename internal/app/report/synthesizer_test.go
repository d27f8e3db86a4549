package report

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aken1023/care-sch/internal/app/api"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
	"github.com/aken1023/care-sch/internal/app/testutil"
)

// fakeTimer fires immediately and records every requested delay.
type fakeTimer struct {
	mu     sync.Mutex
	delays []time.Duration
	c      chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{c: make(chan time.Time, 16)}
}

func (f *fakeTimer) Start(d time.Duration) {
	f.mu.Lock()
	f.delays = append(f.delays, d)
	f.mu.Unlock()
	f.c <- time.Now()
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time { return f.c }

func (f *fakeTimer) Delays() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.delays...)
}

// scriptedCompleter replays results in order; the last one repeats.
type scriptedCompleter struct {
	mu       sync.Mutex
	results  []result
	requests []api.CompletionRequest
}

type result struct {
	text string
	err  error
}

func (s *scriptedCompleter) Complete(_ context.Context, req api.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	r := s.results[min(len(s.requests)-1, len(s.results)-1)]
	return r.text, r.err
}

const fiveSectionReport = `# 照護紀錄報告
## 一、基本資訊
## 二、病患狀況摘要
## 三、照護執行紀錄
## 四、特殊觀察重點
## 五、後續照護建議`

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy
	assert.Equal(t, time.Duration(0), p.Delay(0))
	assert.Equal(t, 5*time.Second, p.Delay(1))
	assert.Equal(t, 10*time.Second, p.Delay(2))
	assert.Equal(t, 20*time.Second, p.Delay(3))
}

func TestSynthesizer_Synthesize(t *testing.T) {
	backendDown := fmt.Errorf("503 service unavailable")

	tests := []struct {
		name         string
		results      []result
		wantReport   string
		wantErr      bool
		wantCalls    int
		wantDelays   []time.Duration
		wantRetryErr error
	}{
		{
			name:       "first attempt succeeds",
			results:    []result{{text: fiveSectionReport}},
			wantReport: fiveSectionReport,
			wantCalls:  1,
		},
		{
			name:       "second attempt succeeds",
			results:    []result{{err: backendDown}, {text: fiveSectionReport}},
			wantReport: fiveSectionReport,
			wantCalls:  2,
			wantDelays: []time.Duration{5 * time.Second},
		},
		{
			name:       "third attempt succeeds",
			results:    []result{{err: backendDown}, {err: backendDown}, {text: "ok"}},
			wantReport: "ok",
			wantCalls:  3,
			wantDelays: []time.Duration{5 * time.Second, 10 * time.Second},
		},
		{
			name:         "every attempt fails",
			results:      []result{{err: backendDown}},
			wantErr:      true,
			wantCalls:    3,
			wantDelays:   []time.Duration{5 * time.Second, 10 * time.Second},
			wantRetryErr: backendDown,
		},
		{
			name:         "blank completions count as failures",
			results:      []result{{text: "  \n "}},
			wantErr:      true,
			wantCalls:    3,
			wantDelays:   []time.Duration{5 * time.Second, 10 * time.Second},
			wantRetryErr: apperrors.ErrEmptyCompletion,
		},
		{
			name:       "malformed report is returned as-is",
			results:    []result{{text: "只有一行"}},
			wantReport: "只有一行",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &scriptedCompleter{results: tt.results}
			timer := newFakeTimer()
			var retries []int

			s := NewSynthesizer(completer,
				WithTimer(timer),
				WithRetryHook(func(attempt int, err error, _ time.Duration) { retries = append(retries, attempt) }),
			)

			got, err := s.Synthesize(context.Background(), "病人意識清楚，生命徵象穩定")

			assert.Len(t, completer.requests, tt.wantCalls)
			assert.Equal(t, tt.wantDelays, timer.Delays())
			assert.Len(t, retries, len(tt.wantDelays))

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, apperrors.ErrSynthesis))
				assert.Equal(t, apperrors.KindSynthesis, apperrors.KindOf(err))
				assert.True(t, stderrors.Is(err, tt.wantRetryErr))
				assert.Contains(t, err.Error(), "after 3 attempt(s)")
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantReport, got)
		})
	}
}

func TestSynthesizer_Request(t *testing.T) {
	completer := testutil.NewMockCompleter(t)
	completer.On("Complete", mock.Anything, mock.AnythingOfType("api.CompletionRequest")).
		Return(testutil.SampleReport, nil).Once()
	s := NewSynthesizer(completer)

	got, err := s.Synthesize(context.Background(), testutil.SampleTranscript)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleReport, got)
	completer.AssertExpectations(t)

	req := completer.Calls[0].Arguments.Get(1).(api.CompletionRequest)
	assert.Equal(t, SystemInstruction, req.System)
	assert.Equal(t, DefaultTemperature, req.Temperature)
	assert.Contains(t, req.Prompt, "轉錄內容：\n"+testutil.SampleTranscript+"\n")
	for _, section := range Sections {
		assert.Contains(t, req.Prompt, "## "+section)
	}
	assert.Contains(t, req.Prompt, MissingInfoMarker)
}

func TestSynthesizer_CallTimeout(t *testing.T) {
	completer := testutil.NewMockCompleter(t)
	completer.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			deadline, ok := args.Get(0).(context.Context).Deadline()
			require.True(t, ok, "each attempt carries its own deadline")
			assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		}).
		Return(testutil.SampleReport, nil).Once()

	_, err := NewSynthesizer(completer, WithCallTimeout(time.Minute)).Synthesize(context.Background(), "x")
	require.NoError(t, err)
	completer.AssertExpectations(t)
}

func TestSynthesizer_CustomPolicy(t *testing.T) {
	completer := &scriptedCompleter{results: []result{{err: fmt.Errorf("boom")}}}
	timer := newFakeTimer()
	s := NewSynthesizer(completer,
		WithTimer(timer),
		WithRetryPolicy(RetryPolicy{MaxAttempts: 4, InitialDelay: time.Second, Multiplier: 3}),
		WithTemperature(0.2),
	)

	_, err := s.Synthesize(context.Background(), "x")
	require.Error(t, err)
	assert.Len(t, completer.requests, 4)
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second, 9 * time.Second}, timer.Delays())
	assert.Equal(t, float32(0.2), completer.requests[0].Temperature)
}

func TestSynthesizer_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	completer := &cancelingCompleter{cancel: cancel}

	s := NewSynthesizer(completer)

	started := time.Now()
	_, err := s.Synthesize(ctx, "x")

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrSynthesis))
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.Equal(t, 1, completer.calls)
	assert.Less(t, time.Since(started), time.Second, "must not sleep after cancellation")
}

type cancelingCompleter struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancelingCompleter) Complete(ctx context.Context, _ api.CompletionRequest) (string, error) {
	c.calls++
	c.cancel()
	return "", ctx.Err()
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("血壓 120/80")
	assert.Equal(t, 1, strings.Count(prompt, "血壓 120/80"))
	assert.NotContains(t, prompt, "{{transcript}}")
	assert.Len(t, Sections, 5)
}
