package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/triage-assistant/internal/common"
	"github.com/i474232898/triage-assistant/internal/environment"
	"github.com/i474232898/triage-assistant/internal/location"
	"github.com/i474232898/triage-assistant/internal/metrics"
)

// SnapshotReader is the fail-soft read side of the environment gateway.
type SnapshotReader interface {
	GetStored(ctx context.Context) *environment.Snapshot
}

// Analyzer sends an assembled prompt to the remote chat endpoint.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt lays out the text sent to the chat endpoint.
func BuildPrompt(mode Mode, envContext, message string) string {
	return fmt.Sprintf("MODE: %s ASSISTANT\n\n%s\n\nUser Message: %s", mode.Upper(), envContext, message)
}

// Assembler combines the stored environmental context with a user message
// and asks the remote chat endpoint for a reply.
type Assembler struct {
	snapshots SnapshotReader
	locator   location.Provider
	analyzer  Analyzer
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
}

func NewAssembler(snapshots SnapshotReader, locator location.Provider, analyzer Analyzer, log logrus.FieldLogger, m *metrics.Metrics) *Assembler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Assembler{
		snapshots: snapshots,
		locator:   locator,
		analyzer:  analyzer,
		log:       log.WithField("component", "assembler"),
		metrics:   m,
	}
}

// EnvironmentContext reads the stored snapshot and formats it. The location
// is only resolved when there is a snapshot to describe.
func (a *Assembler) EnvironmentContext(ctx context.Context) string {
	snap := a.snapshots.GetStored(ctx)
	if snap == nil {
		return environment.NoDataContext
	}
	return environment.FormatContext(snap, location.Label(ctx, a.locator))
}

// GenerateResponse makes exactly one request to the chat endpoint. Errors
// match common.ErrNetwork or common.ErrDecode and are returned unchanged.
func (a *Assembler) GenerateResponse(ctx context.Context, prompt string, mode Mode) (string, error) {
	if mode == "" {
		mode = DefaultMode
	}

	full := BuildPrompt(mode, a.EnvironmentContext(ctx), prompt)

	reply, err := a.analyzer.Analyze(ctx, full)
	if err != nil {
		result := metrics.ResultNetworkError
		if errors.Is(err, common.ErrDecode) {
			result = metrics.ResultDecodeError
		}
		a.metrics.ObserveChat(string(mode), result)
		a.log.WithError(err).WithField("mode", mode).Warn("chat request failed")
		return "", err
	}

	a.metrics.ObserveChat(string(mode), metrics.ResultOK)
	return reply, nil
}
