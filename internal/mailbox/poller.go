package mailbox

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/service"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
	"github.com/capitalize-ai/travel-assistant/pkg/metrics"
)

// Outcome is what happened to one unread message in a cycle.
type Outcome string

const (
	OutcomeForwarded     Outcome = "forwarded"
	OutcomeForwardFailed Outcome = "forward_failed"
	OutcomeNotSupervisor Outcome = "not_supervisor"
	OutcomeEmptyBody     Outcome = "empty_body"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeFetchFailed   Outcome = "fetch_failed"
	OutcomeParseFailed   Outcome = "parse_failed"
)

// MessageReport describes the handling of one message.
type MessageReport struct {
	UID            uint32
	Outcome        Outcome
	ConversationID string
	Err            error
}

// CycleReport is the typed result of one poll cycle.
type CycleReport struct {
	Unread   int
	Messages []MessageReport
}

// Count returns how many messages ended with outcome o.
func (r *CycleReport) Count(o Outcome) int {
	n := 0
	for _, m := range r.Messages {
		if m.Outcome == o {
			n++
		}
	}
	return n
}

// Config holds poller settings.
type Config struct {
	SupervisorEmail       string
	DefaultConversationID string
	Interval              time.Duration
	// CycleTimeout bounds a single cycle.
	CycleTimeout time.Duration
}

// Poller forwards supervisor replies from a mailbox into conversations.
type Poller struct {
	dialer    Dialer
	forwarder Forwarder
	cfg       Config
	seen      *cache.Cache
	logger    *logger.Logger
}

// NewPoller creates a new poller.
func NewPoller(dialer Dialer, forwarder Forwarder, cfg Config, log *logger.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = 2 * time.Minute
	}
	cfg.SupervisorEmail = strings.ToLower(strings.TrimSpace(cfg.SupervisorEmail))

	return &Poller{
		dialer:    dialer,
		forwarder: forwarder,
		cfg:       cfg,
		seen:      cache.New(24*time.Hour, time.Hour),
		logger:    log.Named("mailbox"),
	}
}

// RunOnce performs one cycle: connect, read unread messages oldest first,
// forward supervisor replies and mark every processed message read. Only
// connection and search failures are returned; per-message failures are in
// the report.
func (p *Poller) RunOnce(ctx context.Context) (*CycleReport, error) {
	ctx, span := otel.Tracer("Poller").Start(ctx, "RunOnce")
	defer span.End()

	report := &CycleReport{}

	session, err := p.dialer.Dial(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return report, fmt.Errorf("failed to open mailbox: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			p.logger.Warn("failed to close mailbox session", zap.Error(err))
		}
	}()

	uids, err := session.SearchUnread(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return report, fmt.Errorf("failed to search unread messages: %w", err)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	report.Unread = len(uids)
	span.SetAttributes(attribute.Int("mailbox.unread", len(uids)))

	for _, uid := range uids {
		if ctx.Err() != nil {
			break
		}
		mr := p.process(ctx, session, uid)
		metrics.RepliesTotal.WithLabelValues(string(mr.Outcome)).Inc()
		report.Messages = append(report.Messages, mr)
	}

	return report, nil
}

func (p *Poller) process(ctx context.Context, session Session, uid uint32) MessageReport {
	mr := MessageReport{UID: uid}
	log := p.logger.With(zap.Uint32("uid", uid))

	raw, err := session.Fetch(ctx, uid)
	if err != nil {
		// Left unread so the next cycle retries it.
		log.Warn("failed to fetch message", zap.Error(err))
		mr.Outcome, mr.Err = OutcomeFetchFailed, err
		return mr
	}
	defer p.markRead(ctx, session, uid, log)

	reply, err := ParseReply(raw)
	if err != nil {
		log.Warn("failed to parse message", zap.Error(err))
		mr.Outcome, mr.Err = OutcomeParseFailed, err
		return mr
	}
	log = log.With(zap.String("from", reply.From), zap.String("subject", reply.Subject))

	if reply.From == "" || reply.From != p.cfg.SupervisorEmail {
		log.Info("skipping message not sent by the supervisor")
		mr.Outcome = OutcomeNotSupervisor
		return mr
	}

	text := StripQuotedReply(reply.Body)
	if text == "" {
		log.Info("skipping supervisor message with empty body")
		mr.Outcome = OutcomeEmptyBody
		return mr
	}

	if reply.MessageID != "" {
		if _, dup := p.seen.Get(reply.MessageID); dup {
			log.Info("skipping already forwarded message", zap.String("message_id", reply.MessageID))
			mr.Outcome = OutcomeDuplicate
			return mr
		}
	}

	corr := service.ParseCorrelation(reply.Subject)
	mr.ConversationID = corr.ConversationID
	if mr.ConversationID == "" {
		mr.ConversationID = p.cfg.DefaultConversationID
	}

	err = p.forwarder.Forward(ctx, mr.ConversationID, &model.SupervisorReplyRequest{
		Message:      text,
		EscalationID: corr.EscalationID,
	})
	if err != nil {
		log.Error("failed to forward supervisor reply",
			zap.String("conversation_id", mr.ConversationID),
			zap.Error(err),
		)
		mr.Outcome, mr.Err = OutcomeForwardFailed, err
		return mr
	}

	if reply.MessageID != "" {
		p.seen.Set(reply.MessageID, struct{}{}, cache.DefaultExpiration)
	}
	log.Info("forwarded supervisor reply",
		zap.String("conversation_id", mr.ConversationID),
		zap.String("escalation_id", corr.EscalationID),
		zap.Int("length", len(text)),
	)
	mr.Outcome = OutcomeForwarded
	return mr
}

func (p *Poller) markRead(ctx context.Context, session Session, uid uint32, log *logger.Logger) {
	if err := session.MarkRead(ctx, uid); err != nil {
		log.Warn("failed to mark message read", zap.Error(err))
	}
}

// cycle runs one bounded RunOnce and logs the result. It never panics the
// scheduler and never returns an error.
func (p *Poller) cycle(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.CycleTimeout)
	defer cancel()

	start := time.Now()
	report, err := p.RunOnce(ctx)
	if err != nil {
		metrics.PollCyclesTotal.WithLabelValues("error").Inc()
		p.logger.Error("poll cycle failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	metrics.PollCyclesTotal.WithLabelValues("ok").Inc()

	p.logger.Info("poll cycle completed",
		zap.Int("unread", report.Unread),
		zap.Int("forwarded", report.Count(OutcomeForwarded)),
		zap.Int("forward_failed", report.Count(OutcomeForwardFailed)),
		zap.Int("not_supervisor", report.Count(OutcomeNotSupervisor)),
		zap.Int("empty_body", report.Count(OutcomeEmptyBody)),
		zap.Int("duplicate", report.Count(OutcomeDuplicate)),
		zap.Int("fetch_failed", report.Count(OutcomeFetchFailed)),
		zap.Duration("duration", time.Since(start)),
	)
}

// Run polls immediately and then every Interval until ctx is cancelled.
// Overlapping cycles are skipped.
func (p *Poller) Run(ctx context.Context) error {
	cl := cronLogger{p.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc("@every "+p.cfg.Interval.String(), func() { p.cycle(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule poller: %w", err)
	}

	p.logger.Info("mailbox poller started", zap.Duration("interval", p.cfg.Interval))
	p.cycle(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	p.logger.Info("mailbox poller stopped")
	return nil
}

// cronLogger adapts the zap wrapper to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
