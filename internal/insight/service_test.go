package insight_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhashir/textrack/internal/domain/models"
	"github.com/mhashir/textrack/internal/insight"
	"github.com/mhashir/textrack/pkg/clients/gemini"
)

// stubClient scripts the AI collaborator for tests.
type stubClient struct {
	t *testing.T

	textReply string
	jsonReply string
	err       error

	// forbidden makes any call fail the test.
	forbidden bool

	// block, when non-nil, holds the call open until the channel is closed;
	// started is closed once the first call arrives.
	block   chan struct{}
	started chan struct{}
	once    sync.Once

	calls int
}

func (s *stubClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.handle()
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string, schema *gemini.Schema) (string, error) {
	if _, err := s.handle(); err != nil {
		return "", err
	}
	return s.jsonReply, s.err
}

func (s *stubClient) handle() (string, error) {
	if s.forbidden {
		s.t.Fatal("ai client must not be invoked")
	}
	s.calls++
	if s.started != nil {
		s.once.Do(func() { close(s.started) })
	}
	if s.block != nil {
		<-s.block
	}
	return s.textReply, s.err
}

func someRecords() []models.Record {
	return []models.Record{{
		DoriDetail:     "40ct cotton",
		WarpinDetail:   "section B",
		BheemDetail:    "bheem 12",
		DeliveryDetail: "pending",
		EntryDate:      "2024-10-26",
	}}
}

func TestSummarize_EmptyLedger_SkipsTheNetwork(t *testing.T) {
	stub := &stubClient{t: t, forbidden: true}
	svc := insight.NewService(stub, nil)

	text, err := svc.Summarize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, insight.MsgNoRecords, text)
}

func TestSummarize_ReturnsServiceReply(t *testing.T) {
	stub := &stubClient{t: t, textReply: "Production is trending up."}
	svc := insight.NewService(stub, nil)

	text, err := svc.Summarize(context.Background(), someRecords())
	require.NoError(t, err)
	assert.Equal(t, "Production is trending up.", text)
	assert.Equal(t, 1, stub.calls)
}

func TestSummarize_ServiceFailure_DegradesToFallback(t *testing.T) {
	stub := &stubClient{t: t, err: errors.New("boom")}
	svc := insight.NewService(stub, nil)

	text, err := svc.Summarize(context.Background(), someRecords())
	require.NoError(t, err, "service failures must not escape the boundary")
	assert.Equal(t, insight.MsgUnavailable, text)
}

func TestSummarize_NilClient_DegradesToFallback(t *testing.T) {
	svc := insight.NewService(nil, nil)

	text, err := svc.Summarize(context.Background(), someRecords())
	require.NoError(t, err)
	assert.Equal(t, insight.MsgUnavailable, text)
}

func TestExtract_ParsesCompleteSuggestion(t *testing.T) {
	stub := &stubClient{t: t, jsonReply: `{
		"doriDetail": "40ct cotton",
		"warpinDetail": "section B",
		"bheemDetail": "bheem 12",
		"deliveryDetail": "ship friday"
	}`}
	svc := insight.NewService(stub, nil)

	suggestion, err := svc.Extract(context.Background(), "40ct cotton on section B, bheem 12, ship friday")
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "40ct cotton", suggestion.DoriDetail)
	assert.Equal(t, "ship friday", suggestion.DeliveryDetail)
}

func TestExtract_MissingRequiredField_YieldsNil(t *testing.T) {
	stub := &stubClient{t: t, jsonReply: `{
		"doriDetail": "40ct cotton",
		"warpinDetail": "section B",
		"bheemDetail": "bheem 12"
	}`}
	svc := insight.NewService(stub, nil)

	suggestion, err := svc.Extract(context.Background(), "a note")
	require.NoError(t, err)
	assert.Nil(t, suggestion, "a partial suggestion must never be returned")
}

func TestExtract_UnparseableReply_YieldsNil(t *testing.T) {
	stub := &stubClient{t: t, jsonReply: "sorry, no json today"}
	svc := insight.NewService(stub, nil)

	suggestion, err := svc.Extract(context.Background(), "a note")
	require.NoError(t, err)
	assert.Nil(t, suggestion)
}

func TestSecondCallWhileOutstanding_IsRejected(t *testing.T) {
	stub := &stubClient{t: t, textReply: "ok", block: make(chan struct{}), started: make(chan struct{})}
	svc := insight.NewService(stub, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Summarize(context.Background(), someRecords())
	}()

	// Wait for the first call to occupy the slot, then probe.
	<-stub.started
	_, err := svc.Extract(context.Background(), "note")
	assert.ErrorIs(t, err, insight.ErrAnalysisInProgress)

	close(stub.block)
	<-done

	// Slot is free again once the first call finishes.
	text, err := svc.Summarize(context.Background(), someRecords())
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}
