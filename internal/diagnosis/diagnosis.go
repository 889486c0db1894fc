package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

var (
	// ErrDiagnosisFailed wraps every failure of the AI call. Its message is
	// safe to show to users.
	ErrDiagnosisFailed = errors.New("failed to analyze sleep data")
	ErrEmptyResponse   = errors.New("AI returned no text")
	ErrNotConfigured   = errors.New("AI diagnosis is not configured")
)

// Generator turns a prompt into text. Implementations must honour ctx
// cancellation.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Unconfigured is the Generator used when no API key is set.
type Unconfigured struct{}

func (Unconfigured) GenerateText(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Diagnoser sends one prompt per call, bounded by a timeout and never retried.
type Diagnoser struct {
	gen     Generator
	timeout time.Duration
	logger  internal.Logger
}

func NewDiagnoser(gen Generator, timeout time.Duration, logger internal.Logger) *Diagnoser {
	return &Diagnoser{gen: gen, timeout: timeout, logger: logger}
}

// Diagnose returns the model's text verbatim.
func (d *Diagnoser) Diagnose(ctx context.Context, req Request) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := d.gen.GenerateText(ctx, BuildPrompt(req))
	if err != nil {
		d.logger.Errorf("diagnosis: user=%s days=%d error: %v", req.UserID, len(req.Daily), err)
		return "", fmt.Errorf("%w: %w", ErrDiagnosisFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		d.logger.Warnf("diagnosis: user=%s empty response", req.UserID)
		return "", fmt.Errorf("%w: %w", ErrDiagnosisFailed, ErrEmptyResponse)
	}
	d.logger.Infof("diagnosis: user=%s days=%d took=%s", req.UserID, len(req.Daily), time.Since(started))
	return text, nil
}

// Close releases the underlying generator when it holds resources.
func (d *Diagnoser) Close() error {
	if c, ok := d.gen.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
