package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// TracingObserver opens one span per session, from Presenting to Dismissed.
type TracingObserver struct {
	toast.NoopObserver

	tracer oteltrace.Tracer

	mu    sync.Mutex
	spans map[*toast.Session]oteltrace.Span
}

var _ toast.Observer = (*TracingObserver)(nil)

// NewTracingObserver creates an observer tracing to p.
func NewTracingObserver(p *Provider) *TracingObserver {
	return &TracingObserver{
		tracer: p.Tracer(),
		spans:  make(map[*toast.Session]oteltrace.Span),
	}
}

func descriptorAttributes(d model.Descriptor) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("toastui.toast.id", d.ID),
		attribute.String("toastui.screen", string(d.Screen)),
		attribute.String("toastui.style", d.Style.Name),
		attribute.String("toastui.location", d.Location.String()),
		attribute.String("toastui.length", d.Length.String()),
	}
}

func (o *TracingObserver) OnPresenting(s *toast.Session) {
	_, span := o.tracer.Start(context.Background(), "toast.session",
		oteltrace.WithAttributes(descriptorAttributes(s.Descriptor())...),
		oteltrace.WithAttributes(
			attribute.String("toastui.present_direction", s.Descriptor().PresentDirection.String()),
			attribute.Float64("toastui.surface.width", s.Geometry().Surface.Width),
			attribute.Float64("toastui.surface.height", s.Geometry().Surface.Height),
		),
	)

	o.mu.Lock()
	o.spans[s] = span
	o.mu.Unlock()
}

func (o *TracingObserver) span(s *toast.Session) oteltrace.Span {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.spans[s]
}

func (o *TracingObserver) OnVisible(s *toast.Session) {
	if span := o.span(s); span != nil {
		span.AddEvent("visible")
	}
}

func (o *TracingObserver) OnDismissing(s *toast.Session, reason model.Reason) {
	if span := o.span(s); span != nil {
		span.AddEvent("dismissing", oteltrace.WithAttributes(attribute.String("toastui.reason", reason.String())))
	}
}

func (o *TracingObserver) OnDismissed(s *toast.Session, reason model.Reason) {
	o.mu.Lock()
	span := o.spans[s]
	delete(o.spans, s)
	o.mu.Unlock()

	if span == nil {
		return
	}
	span.SetAttributes(attribute.String("toastui.reason", reason.String()))
	span.End()
}

func (o *TracingObserver) OnSkipped(d model.Descriptor, err error) {
	_, span := o.tracer.Start(context.Background(), "toast.skipped",
		oteltrace.WithAttributes(descriptorAttributes(d)...),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

func (o *TracingObserver) OnCancelled(d model.Descriptor) {
	_, span := o.tracer.Start(context.Background(), "toast.cancelled",
		oteltrace.WithAttributes(descriptorAttributes(d)...),
	)
	span.End()
}
