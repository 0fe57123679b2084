package complexity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/telemetry/metrics"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

// MaxScore is returned for utterances longer than the short-circuit length.
const MaxScore = 1.0

const promptTemplate = `
Analyze the request and return JSON: {"complexity": a number from 0 to 1}
complexity should be high (0.6-1.0) for complex tasks: detailed analysis, comparisons, reasoning, long explanations, fixing errors, adding something, changing or correcting.
complexity should be low (0-0.5) for simple tasks: short answers, facts, basic questions.
Your task is not to help the user but to return, depending on the complexity of the request, {"complexity": a number from 0.0 to 1.0}.
The request whose complexity needs to be assessed: "%s"
Always return JSON with a value.
JSON:
`

// jsonObject matches the first single-level JSON object in a reply.
var jsonObject = regexp.MustCompile(`\{[^}]+\}`)

// Options configures a Classifier.
type Options struct {
	// Model is the auxiliary rate model.
	Model string

	// Caller issues the per-credential requests.
	Caller providers.ContentCaller

	// ShortCircuitLength is the character count above which MaxScore is
	// returned without a call.
	ShortCircuitLength int

	// DefaultScore is returned when no credential yields a usable score.
	DefaultScore float64

	// MaxOutputTokens bounds the rate model reply.
	MaxOutputTokens int

	// Metrics is optional.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Classifier scores how demanding an utterance is, in [0, 1].
type Classifier struct {
	opts   Options
	logger *slog.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(opts Options) *Classifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{opts: opts, logger: logger}
}

// Rate scores text.
//
// Text longer than ShortCircuitLength characters, counted as is, scores
// MaxScore without a network call. Otherwise the rate
// model is asked once per credential until one reply carries a score; an
// exhausted pool gives DefaultScore. A failed classification is retried
// once and a second failure is returned.
func (c *Classifier) Rate(ctx context.Context, text string) (float64, error) {
	ctx, span := tracing.Start(ctx, "classifier.rate", tracing.Model(c.opts.Model))
	defer span.End()

	if utf8.RuneCountInString(text) > c.opts.ShortCircuitLength {
		c.opts.Metrics.RecordClassifierScore(MaxScore)
		return MaxScore, nil
	}

	score, err := c.classify(ctx, text)
	if err != nil {
		c.logger.WarnContext(ctx, "classification failed, retrying", "error", err)
		score, err = c.classify(ctx, text)
		if err != nil {
			tracing.SetStatus(span, err)
			return 0, fmt.Errorf("classify: %w", err)
		}
	}

	score = clamp(score)
	c.opts.Metrics.RecordClassifierScore(score)
	return score, nil
}

// classify runs one pass over the credential pool.
func (c *Classifier) classify(ctx context.Context, text string) (float64, error) {
	contents := []providers.Content{{
		Role:  providers.RoleUser,
		Parts: []providers.Part{providers.TextPart(fmt.Sprintf(promptTemplate, text))},
	}}
	cfg := providers.GenerationConfig{MaxOutputTokens: c.opts.MaxOutputTokens, Temperature: 0}

	keys := c.opts.Caller.Keys().Shuffled()
	for i, key := range keys {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		log := c.logger.With(
			"model", c.opts.Model,
			"key_index", fmt.Sprintf("%d/%d", i+1, len(keys)),
			"key_id", providers.Fingerprint(key),
		)

		reply, err := c.opts.Caller.Call(ctx, c.opts.Model, key, contents, cfg)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			log.WarnContext(ctx, "classifier call failed, trying next key", "error", err)
			continue
		}

		score, ok := c.parseScore(reply)
		if !ok {
			log.WarnContext(ctx, "classifier reply has no usable score, trying next key", "reply", reply)
			continue
		}
		return score, nil
	}

	c.logger.WarnContext(ctx, "classifier keys exhausted, using default score",
		"model", c.opts.Model,
		"default", c.opts.DefaultScore,
	)
	return c.opts.DefaultScore, nil
}

// parseScore extracts the complexity field from the first JSON object in
// reply. A missing field gives DefaultScore.
func (c *Classifier) parseScore(reply string) (float64, bool) {
	match := jsonObject.FindString(reply)
	if match == "" {
		return 0, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(match), &obj); err != nil {
		return 0, false
	}

	value, present := obj["complexity"]
	if !present {
		return c.opts.DefaultScore, true
	}

	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func clamp(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
