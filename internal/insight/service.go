// Package insight wraps the generative-AI collaborator behind the two
// operations the ledger offers: trend summaries over the record set and
// field extraction from a free-text note. Service failures never escape
// this package; they degrade to a fixed message or a nil suggestion.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mhashir/textrack/internal/domain/models"
	"github.com/mhashir/textrack/pkg/clients/gemini"
)

const (
	// MsgNoRecords is returned for an empty ledger without calling out.
	MsgNoRecords = "No records to analyze."

	// MsgUnavailable is the degraded reply for any service failure.
	MsgUnavailable = "Insights are currently unavailable."
)

// ErrAnalysisInProgress is returned when a call starts while another is
// outstanding. There is one slot, no queue and no cancellation of the
// in-flight call; the caller retries explicitly once it completes.
var ErrAnalysisInProgress = errors.New("an analysis is already in progress")

// recordProjection is what leaves the process: only the four detail fields.
// IDs, ownership stamps and timestamps never reach the AI service.
type recordProjection struct {
	Dori     string `json:"dori"`
	Warpin   string `json:"warpin"`
	Bheem    string `json:"bheem"`
	Delivery string `json:"delivery"`
}

// Service is the AI insight collaborator.
type Service struct {
	ai     gemini.Client
	logger *zap.Logger
	slot   chan struct{}
}

// NewService wires the collaborator. A nil client disables both operations:
// Summarize degrades to MsgUnavailable and Extract to nil.
func NewService(ai gemini.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ai:     ai,
		logger: logger,
		slot:   make(chan struct{}, 1),
	}
}

func (s *Service) acquire() error {
	select {
	case s.slot <- struct{}{}:
		return nil
	default:
		return ErrAnalysisInProgress
	}
}

func (s *Service) release() { <-s.slot }

// Summarize sends the detail-field projection of the records to the AI
// service and returns its reply. An empty ledger short-circuits to
// MsgNoRecords without any network activity; every failure path resolves to
// MsgUnavailable.
func (s *Service) Summarize(ctx context.Context, records []models.Record) (string, error) {
	if len(records) == 0 {
		return MsgNoRecords, nil
	}
	if err := s.acquire(); err != nil {
		return "", err
	}
	defer s.release()

	if s.ai == nil {
		return MsgUnavailable, nil
	}

	projection := make([]recordProjection, 0, len(records))
	for _, r := range records {
		projection = append(projection, recordProjection{
			Dori:     r.DoriDetail,
			Warpin:   r.WarpinDetail,
			Bheem:    r.BheemDetail,
			Delivery: r.DeliveryDetail,
		})
	}

	payload, err := json.Marshal(projection)
	if err != nil {
		s.logger.Error("failed to encode record projection", zap.Error(err))
		return MsgUnavailable, nil
	}

	prompt := fmt.Sprintf(
		"Analyze these textile stock records and provide a brief summary of production flow.\nRecords: %s",
		payload)

	reply, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("ai summary failed", zap.Error(err))
		return MsgUnavailable, nil
	}
	if reply == "" {
		return "Summary generated successfully.", nil
	}

	return reply, nil
}

// Extract asks the AI service to pull the four detail fields out of a
// free-text note. It returns nil on any failure, including a structurally
// valid reply that leaves a required field empty; a partial suggestion is
// never returned.
func (s *Service) Extract(ctx context.Context, note string) (*models.FieldSuggestion, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	if s.ai == nil {
		return nil, nil
	}

	prompt := fmt.Sprintf(
		"From the following textile note, extract: Dori Detail, Warpin Detail, Bheem Detail, and Delivery Detail.\nNote: %q",
		note)

	schema := gemini.StringObjectSchema(
		"doriDetail", "warpinDetail", "bheemDetail", "deliveryDetail")

	raw, err := s.ai.GenerateJSON(ctx, prompt, schema)
	if err != nil {
		s.logger.Warn("ai extraction failed", zap.Error(err))
		return nil, nil
	}

	var suggestion models.FieldSuggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		s.logger.Warn("ai extraction reply unparseable", zap.Error(err))
		return nil, nil
	}

	if suggestion.DoriDetail == "" || suggestion.WarpinDetail == "" ||
		suggestion.BheemDetail == "" || suggestion.DeliveryDetail == "" {
		s.logger.Warn("ai extraction reply missing required fields")
		return nil, nil
	}

	return &suggestion, nil
}
