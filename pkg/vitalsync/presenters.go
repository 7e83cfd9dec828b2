package vitalsync

import (
	"sync"
)

// Reading is what a Presenter saw for one run.
type Reading struct {
	HeartRateData   []HeartRateEntry
	BodyTemperature float64
}

// PresenterFunc receives the values of each run.
type PresenterFunc func(heartRate []HeartRateEntry, bodyTemperatureCelsius float64)

// NewCallbackPresenter adapts a function into a Presenter so callers can plug
// a display without defining structs. A nil fn discards the values.
func NewCallbackPresenter(fn PresenterFunc) Presenter {
	return &callbackPresenter{fn: fn}
}

// NewChannelPresenter exposes readings via a channel; it returns the
// presenter, the read-only channel, and a close function that the caller
// should invoke during shutdown. A run never blocks on a slow reader: when
// the buffer is full the reading is dropped.
func NewChannelPresenter(buffer int) (Presenter, <-chan Reading, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Reading, buffer)
	p := &channelPresenter{ch: ch}
	return p, ch, p.close
}

type callbackPresenter struct {
	fn PresenterFunc
}

func (p *callbackPresenter) OnDataFetched(heartRate []HeartRateEntry, bodyTemperature float64) {
	if p.fn == nil {
		return
	}
	p.fn(heartRate, bodyTemperature)
}

type channelPresenter struct {
	mu     sync.Mutex
	ch     chan Reading
	closed bool
}

func (p *channelPresenter) OnDataFetched(heartRate []HeartRateEntry, bodyTemperature float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	r := Reading{
		HeartRateData:   append([]HeartRateEntry(nil), heartRate...),
		BodyTemperature: bodyTemperature,
	}
	select {
	case p.ch <- r:
	default:
	}
}

func (p *channelPresenter) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.ch)
}
