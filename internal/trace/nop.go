package trace

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop is the tracer used when tracing is disabled.
var Nop Tracer = nopTracer{}

// Fanout forwards events to several tracers.
type Fanout struct {
	tracers []Tracer
	level   Level
}

func NewFanout(level Level, tracers ...Tracer) *Fanout {
	return &Fanout{tracers: tracers, level: level}
}

func (t *Fanout) Emit(ev *Event) {
	for _, tr := range t.tracers {
		// у каждого трейсера своя копия: Stream перезаписывает Seq
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *Fanout) Flush() error {
	var firstErr error
	for _, tr := range t.tracers {
		if err := tr.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *Fanout) Close() error {
	var firstErr error
	for _, tr := range t.tracers {
		if err := tr.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *Fanout) Level() Level  { return t.level }
func (t *Fanout) Enabled() bool { return t.level > LevelOff }

// Ring returns the first RingTracer among the fanout targets.
func (t *Fanout) Ring() *RingTracer {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r
		}
	}
	return nil
}
