package processor

import (
	"context"

	"ontoqa/internal/knowledge"
	"ontoqa/internal/question"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "ontoqa/processor"

type handler func(head, tail string) knowledge.Result

// Processor turns free-text questions into answers from an ontology.
type Processor struct {
	session  string
	handlers map[question.Type]handler
	tracer   trace.Tracer
	log      *logrus.Entry
}

// Option configures a Processor.
type Option func(*Processor)

// WithTracer sets the tracer used for per-question spans. The default is the
// global provider's tracer, which records nothing unless one is installed.
func WithTracer(t trace.Tracer) Option {
	return func(p *Processor) { p.tracer = t }
}

// New returns a processor answering from q.
func New(q knowledge.Querier, opts ...Option) *Processor {
	session := uuid.New().String()
	p := &Processor{
		session: session,
		handlers: map[question.Type]handler{
			question.TypeInstanceOf:   q.IsInstanceOf,
			question.TypeSubclassOf:   q.IsSubclassOf,
			question.TypeHasAttribute: q.HasAttribute,
		},
		tracer: otel.Tracer(tracerName),
		log:    logrus.WithField("session", session),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session identifies this processor in log output and spans.
func (p *Processor) Session() string {
	return p.session
}

// Process answers text. Text matching no question template is Invalid.
func (p *Processor) Process(text string) knowledge.Result {
	return p.ProcessContext(context.Background(), text)
}

// ProcessContext is Process with a span recorded under ctx.
func (p *Processor) ProcessContext(ctx context.Context, text string) knowledge.Result {
	_, span := p.tracer.Start(ctx, "ontoqa.process",
		trace.WithAttributes(attribute.String("ontoqa.session", p.session)))
	defer span.End()

	q, err := question.Parse(text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unparsable question")
		span.SetAttributes(attribute.String("ontoqa.result", knowledge.Invalid.String()))
		p.log.WithError(err).Warn("Invalid question")
		return knowledge.Invalid
	}

	res := p.Answer(q)
	span.SetAttributes(
		attribute.String("ontoqa.question.type", string(q.Type)),
		attribute.String("ontoqa.question.head", q.Head),
		attribute.String("ontoqa.question.tail", q.Tail),
		attribute.String("ontoqa.result", res.String()),
	)
	return res
}

// Answer resolves an already-parsed question.
func (p *Processor) Answer(q question.Question) knowledge.Result {
	h, ok := p.handlers[q.Type]
	if !ok {
		p.log.WithField("question", q.String()).Warn("No handler for question type")
		return knowledge.DontKnow
	}

	res := h(q.Head, q.Tail)
	p.log.WithFields(logrus.Fields{
		"question": q.String(),
		"result":   res.String(),
	}).Info("Processed question")
	return res
}
