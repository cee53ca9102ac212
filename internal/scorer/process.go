package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single analyzer invocation.
const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long Wait blocks on inherited pipes after a kill.
const waitDelay = 5 * time.Second

// ProcessScorer runs the analyzer as an isolated subprocess. The request is
// written to stdin as JSON and the full result set is read from stdout after
// the process exits. No partial results are accepted.
type ProcessScorer struct {
	command string
	args    []string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewProcessScorer creates a scorer that invokes the given command
func NewProcessScorer(command string, args []string, timeout time.Duration, logger *logrus.Logger) *ProcessScorer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ProcessScorer{
		command: command,
		args:    args,
		timeout: timeout,
		logger:  logger,
	}
}

// Score invokes the analyzer once and parses its output into result records
func (p *ProcessScorer) Score(ctx context.Context, req Request) ([]Result, error) {
	start := time.Now()
	defer func() {
		AnalyzerLatency.Observe(time.Since(start).Seconds())
	}()

	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyzer request: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.command, p.args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		AnalyzerFailuresTotal.WithLabelValues("timeout").Inc()
		p.logger.WithField("timeout", p.timeout).Warn("Analyzer timed out, process killed")
		return nil, fmt.Errorf("%w after %s", ErrTimeout, p.timeout)
	}
	if err != nil {
		AnalyzerFailuresTotal.WithLabelValues("exit").Inc()
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		p.logger.WithError(err).WithField("stderr", detail).Error("Analyzer process failed")
		return nil, fmt.Errorf("%w: %s", ErrAnalyzerFailed, detail)
	}

	var results []Result
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		AnalyzerFailuresTotal.WithLabelValues("parse").Inc()
		p.logger.WithError(err).Error("Analyzer output did not parse")
		return nil, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}

	AnalyzerRunsTotal.Inc()
	p.logger.WithFields(logrus.Fields{
		"records":  len(results),
		"duration": time.Since(start),
	}).Debug("Analyzer run completed")
	return results, nil
}
