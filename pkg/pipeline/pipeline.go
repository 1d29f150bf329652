// Package pipeline orchestrates the end-to-end processing of one flaw-report
// submission: classification, required-field resolution, validation, the
// canonical model, JSON-LD serialization, external-format conversion,
// storage, and recipient resolution.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/aiflawlab/sdk/pkg/adapters/atlas"
	"github.com/aiflawlab/sdk/pkg/adapters/avid"
	"github.com/aiflawlab/sdk/pkg/adapters/cert"
	"github.com/aiflawlab/sdk/pkg/audit"
	"github.com/aiflawlab/sdk/pkg/canonical"
	"github.com/aiflawlab/sdk/pkg/core"
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
	"github.com/aiflawlab/sdk/pkg/jsonld"
	"github.com/aiflawlab/sdk/pkg/metrics"
	"github.com/aiflawlab/sdk/pkg/recipients"
	"github.com/aiflawlab/sdk/pkg/report"
	"github.com/aiflawlab/sdk/pkg/shared/reportid"
	"github.com/aiflawlab/sdk/pkg/storage"
	"github.com/aiflawlab/sdk/pkg/submission"
)

// Notifier delivers a processed report to its coordination channel.
type Notifier interface {
	Notify(ctx context.Context, r *canonical.Report, resolved []recipients.Recipient) (string, error)
}

// Config configures the pipeline. All collaborators are optional; a zero
// config classifies, validates, builds, serializes, and converts, but does
// not store or notify.
type Config struct {
	// Lookup resolves implicated system names against the knowledge base.
	Lookup core.SystemLookup

	// Store persists processed reports. Nil disables storage.
	Store storage.Provider

	// StoreName labels storage metrics. Default: "default".
	StoreName string

	// Converters produce the external-format documents.
	// Nil means the AVID, CERT, and MITRE ATLAS converters.
	Converters []core.Converter

	// Metrics receives pipeline observations. Nil disables metrics.
	Metrics *metrics.Collector

	// Audit receives lifecycle events. Nil discards them.
	Audit *audit.Logger

	// Logger for diagnostics. Nil discards them.
	Logger core.Logger

	// Notifier files the coordination notice. Nil disables notification.
	Notifier Notifier

	// Compact overrides the JSON-LD compaction step, mainly for offline
	// operation and tests. Nil means json-gold.
	Compact func(doc, context map[string]any) (map[string]any, error)

	// Now is the pipeline clock. Nil means time.Now.
	Now func() time.Time
}

// Result is the outcome of processing one submission.
type Result struct {
	ReportID   string            `json:"report_id"`
	Categories []report.Category `json:"categories"`

	Report   *canonical.Report `json:"report"`
	Document map[string]any    `json:"document"`

	// Conversions maps converter name to its document. A converter that
	// failed is absent here and present in ConversionErrors instead.
	Conversions      map[string]any   `json:"conversions,omitempty"`
	ConversionErrors map[string]error `json:"-"`

	StorageLocation string                 `json:"storage_location,omitempty"`
	Recipients      []recipients.Recipient `json:"recipients,omitempty"`
	TrackerURL      string                 `json:"tracker_url,omitempty"`
}

// Pipeline processes submissions. Safe for concurrent use.
type Pipeline struct {
	cfg        *Config
	builder    canonical.Builder
	serializer *jsonld.Serializer
	converters []core.Converter
	auditLog   *audit.Logger
	logger     core.Logger
	now        func() time.Time
}

// New creates a pipeline from the config.
func New(cfg *Config) *Pipeline {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "default"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = core.NewNopLogger()
	}
	auditLog := cfg.Audit
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	converters := cfg.Converters
	if converters == nil {
		converters = []core.Converter{
			&avid.Converter{Now: now},
			&cert.Converter{Now: now},
			&atlas.Converter{Now: now},
		}
	}

	return &Pipeline{
		cfg:        cfg,
		builder:    canonical.Builder{Lookup: cfg.Lookup, Now: now},
		serializer: &jsonld.Serializer{Logger: logger, Compact: cfg.Compact},
		converters: converters,
		auditLog:   auditLog,
		logger:     logger,
		now:        now,
	}
}

// Process runs the submission through the full pipeline. The two answers
// drive classification; either may be unanswered, which yields no categories
// and the base required-field set.
//
// Validation failures and malformed fields abort processing. Converter
// failures, storage failures, and notification failures do not: they are
// logged, audited, and surfaced on the Result.
func (p *Pipeline) Process(ctx context.Context, sub submission.Submission, involvesIncident, involvesThreatActor report.Answer) (*Result, error) {
	start := p.now()
	p.auditLog.Info(audit.EventSubmissionReceived, "", "submission received", map[string]any{
		"fields": len(sub),
	})

	if len(sub) == 0 {
		p.finish(start, "rejected")
		p.auditLog.Fail(audit.EventSubmissionRejected, "", "empty submission", sdkerrors.ErrEmptySubmission)
		return nil, sdkerrors.ErrEmptySubmission
	}

	// Sessions that never got an id from the collecting UI get one here,
	// before the canonical build reads it. The input mapping stays untouched.
	if sub.StringOr(submission.FieldSessionID, "") == "" {
		sub = sub.Clone()
		sub[submission.FieldSessionID] = reportid.New()
	}

	categories := report.Classify(involvesIncident, involvesThreatActor)
	required := report.RequiredFields(categories)
	p.auditLog.Info(audit.EventReportClassified, "", "submission classified", map[string]any{
		"categories": categories,
	})

	if err := report.ValidateForSubmit(sub, required); err != nil {
		if ve, ok := sdkerrors.AsValidation(err); ok && p.cfg.Metrics != nil {
			p.cfg.Metrics.ObserveValidationFailure(len(ve.MissingFields))
		}
		p.finish(start, "rejected")
		p.auditLog.Fail(audit.EventSubmissionRejected, "", "validation failed", err)
		return nil, err
	}

	r, err := p.builder.Build(sub, categories)
	if err != nil {
		p.finish(start, "error")
		p.auditLog.Fail(audit.EventSubmissionRejected, "", "building canonical report", err)
		return nil, err
	}
	p.auditLog.Info(audit.EventReportBuilt, r.ID, "canonical report built", nil)

	doc := p.serializer.Serialize(r)
	p.auditLog.Info(audit.EventReportSerialized, r.ID, "JSON-LD document serialized", nil)

	result := &Result{
		ReportID:   r.ID,
		Categories: categories,
		Report:     r,
		Document:   doc,
	}
	p.runConverters(sub, result)

	if p.cfg.Store != nil {
		location, err := p.cfg.Store.Save(ctx, r.ID, sub, doc)
		if err != nil {
			p.observeStorage("error")
			p.logger.Error("storing report %s: %v", r.ID, err)
			p.auditLog.Fail(audit.EventStorageFailed, r.ID, "storing report", err)
		} else {
			p.observeStorage("ok")
			result.StorageLocation = location
			p.auditLog.Info(audit.EventReportStored, r.ID, "report stored", map[string]any{
				"location": location,
			})
		}
	}

	result.Recipients = recipients.Determine(sub)
	if p.cfg.Notifier != nil && len(result.Recipients) > 0 {
		url, err := p.cfg.Notifier.Notify(ctx, r, result.Recipients)
		if err != nil {
			p.logger.Warn("notifying recipients for report %s: %v", r.ID, err)
		} else {
			result.TrackerURL = url
			p.auditLog.Info(audit.EventRecipientNotified, r.ID, "coordination notice filed", map[string]any{
				"url": url,
			})
		}
	}

	p.finish(start, "ok")
	return result, nil
}

// runConverters runs every converter concurrently. Converters share no
// mutable state, so the only coordination is collecting their outputs.
func (p *Pipeline) runConverters(sub submission.Submission, result *Result) {
	type outcome struct {
		name string
		doc  any
		err  error
	}
	outcomes := make([]outcome, len(p.converters))

	var wg sync.WaitGroup
	for i, conv := range p.converters {
		wg.Add(1)
		go func(i int, conv core.Converter) {
			defer wg.Done()
			started := time.Now()
			doc, err := conv.Convert(sub)
			if p.cfg.Metrics != nil {
				p.cfg.Metrics.ObserveConversion(conv.Name(), time.Since(started), err)
			}
			outcomes[i] = outcome{name: conv.Name(), doc: doc, err: err}
		}(i, conv)
	}
	wg.Wait()

	result.Conversions = make(map[string]any, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			p.logger.Warn("converter %s failed for report %s: %v", o.name, result.ReportID, o.err)
			p.auditLog.Fail(audit.EventConversionFailed, result.ReportID, "conversion failed: "+o.name, o.err)
			if result.ConversionErrors == nil {
				result.ConversionErrors = make(map[string]error)
			}
			result.ConversionErrors[o.name] = o.err
			continue
		}
		result.Conversions[o.name] = o.doc
		p.auditLog.Info(audit.EventConversionCompleted, result.ReportID, "conversion completed: "+o.name, nil)
	}
}

func (p *Pipeline) finish(start time.Time, outcome string) {
	if p.cfg.Metrics == nil {
		return
	}
	p.cfg.Metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	p.cfg.Metrics.PipelineDuration.Observe(p.now().Sub(start).Seconds())
}

func (p *Pipeline) observeStorage(status string) {
	if p.cfg.Metrics == nil {
		return
	}
	p.cfg.Metrics.StorageSaves.WithLabelValues(p.cfg.StoreName, status).Inc()
}
