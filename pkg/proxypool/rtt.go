package proxypool

import "time"

// RTTTimer measures one elapsed span: the validator uses it for a single
// Dial attempt (connect plus handshake, stored in Proxy.LastRTT) and for the
// total time spent on one proxy. It has no separate phases.
type RTTTimer struct {
	start time.Time
	end   time.Time
}

// StartRTT begins a measurement.
func StartRTT() *RTTTimer {
	return &RTTTimer{start: time.Now()}
}

// Stop marks the measurement complete and returns the elapsed duration.
func (t *RTTTimer) Stop() time.Duration {
	t.end = time.Now()
	return t.end.Sub(t.start)
}
