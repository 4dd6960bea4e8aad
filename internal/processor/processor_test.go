package processor

import (
	"context"
	"testing"

	"ontoqa/internal/graph"
	"ontoqa/internal/knowledge"
	"ontoqa/internal/question"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newProcessor(t *testing.T) *Processor {
	t.Helper()
	o, err := knowledge.NewOntology([]graph.Triple{
		{Kind: "InstanceOf", Head: "Lassie", Tail: "dog"},
		{Kind: "SubclassOf", Head: "dog", Tail: "animal"},
		{Kind: "HasAttribute", Head: "dog", Tail: "four-legged"},
		{Kind: "SubclassOf", Head: "tree", Tail: "plant"},
		{Kind: "MutuallyExclusiveWith", Head: "animal", Tail: "plant"},
		{Kind: "InstanceOf", Head: "this", Tail: "thing"},
	})
	require.NoError(t, err)
	return New(o)
}

func TestProcessor_Process(t *testing.T) {
	p := newProcessor(t)

	tests := []struct {
		text string
		want knowledge.Result
	}{
		{"is dog a type of animal?", knowledge.Yes},
		{"is Lassie an animal?", knowledge.Yes},
		{"is Lassie considered to be four-legged?", knowledge.Yes},
		{"is Lassie a plant?", knowledge.No},
		{"is Lassie a tree?", knowledge.No},
		{"is Lassie a pet?", knowledge.DontKnow},
		{"is this a valid question?", knowledge.DontKnow},
		{"who is the current president of the United States?", knowledge.Invalid},
		{"am I an instance of stupid?", knowledge.Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Process(tt.text))
		})
	}
}

func TestProcessor_UnknownType(t *testing.T) {
	p := newProcessor(t)
	assert.Equal(t, knowledge.DontKnow, p.Answer(question.Question{Type: "part_of", Head: "leg", Tail: "dog"}))
}

type recorder struct {
	calls []string
}

func (r *recorder) IsInstanceOf(q, t string) knowledge.Result {
	r.calls = append(r.calls, "instance:"+q+">"+t)
	return knowledge.Yes
}

func (r *recorder) IsSubclassOf(q, t string) knowledge.Result {
	r.calls = append(r.calls, "subclass:"+q+">"+t)
	return knowledge.No
}

func (r *recorder) HasAttribute(q, t string) knowledge.Result {
	r.calls = append(r.calls, "attribute:"+q+">"+t)
	return knowledge.DontKnow
}

func TestProcessor_Dispatch(t *testing.T) {
	rec := &recorder{}
	p := New(rec)

	assert.Equal(t, knowledge.No, p.Process("is grand piano a type of piano?"))
	assert.Equal(t, knowledge.Yes, p.Process("is Smirnoff a drink?"))
	assert.Equal(t, knowledge.DontKnow, p.Process("is naan considered to be Indian?"))
	assert.Equal(t, knowledge.Invalid, p.Process("what is naan?"))

	assert.Equal(t, []string{
		"subclass:grand piano>piano",
		"instance:Smirnoff>drink",
		"attribute:naan>Indian",
	}, rec.calls)
	assert.NotEmpty(t, p.Session())
	assert.NotEqual(t, p.Session(), New(rec).Session())
}

func TestProcessor_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p := New(&recorder{}, WithTracer(tp.Tracer("test")))
	ctx := context.Background()
	assert.Equal(t, knowledge.Yes, p.ProcessContext(ctx, "is Smirnoff a drink?"))
	assert.Equal(t, knowledge.Invalid, p.ProcessContext(ctx, "what is naan?"))

	spans := sr.Ended()
	require.Len(t, spans, 2)

	answered := attrs(spans[0].Attributes())
	assert.Equal(t, "ontoqa.process", spans[0].Name())
	assert.Equal(t, p.Session(), answered["ontoqa.session"])
	assert.Equal(t, "instance_of", answered["ontoqa.question.type"])
	assert.Equal(t, "Smirnoff", answered["ontoqa.question.head"])
	assert.Equal(t, "drink", answered["ontoqa.question.tail"])
	assert.Equal(t, "YES", answered["ontoqa.result"])
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	invalid := attrs(spans[1].Attributes())
	assert.Equal(t, "INVALID", invalid["ontoqa.result"])
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.Len(t, spans[1].Events(), 1, "the parse error is recorded")
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func attrs(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}
