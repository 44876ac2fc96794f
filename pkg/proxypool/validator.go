package proxypool

import (
	"context"
	"sync"
	"time"

	"github.com/kofany/enemy/pkg/enemylog"
)

// ValidateOptions bounds a single validation sweep.
type ValidateOptions struct {
	Concurrency int
	Timeout     time.Duration
	TestHost    string
	TestPort    int
}

// DefaultValidateOptions returns the spec's default sweep parameters.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		TestHost:    DefaultTestHost,
		TestPort:    DefaultTestPort,
	}
}

func (o ValidateOptions) clamp() ValidateOptions {
	if o.Concurrency < MinConcurrency {
		o.Concurrency = MinConcurrency
	}
	if o.Concurrency > MaxConcurrency {
		o.Concurrency = MaxConcurrency
	}
	if o.Timeout < MinTimeout {
		o.Timeout = MinTimeout
	}
	if o.Timeout > MaxTimeout {
		o.Timeout = MaxTimeout
	}
	if o.TestHost == "" {
		o.TestHost = DefaultTestHost
	}
	if o.TestPort == 0 {
		o.TestPort = DefaultTestPort
	}
	if o.TestPort < 1 {
		o.TestPort = 1
	}
	if o.TestPort > 65535 {
		o.TestPort = 65535
	}
	return o
}

// autoDetectOrder is the sequence tried when a proxy's DeclaredType is None.
var autoDetectOrder = []Type{SOCKS5, SOCKS4, HTTP}

// Validate runs a concurrent reachability + protocol auto-detect sweep over
// pool, per SPEC_FULL §4.5/§5. It returns the surviving working count, or -1
// if the pool was empty at entry. Three independent locks guard the shared
// index counter, the aggregate stats, and log output — none of them is ever
// held across I/O or across each other, so a slow proxy never blocks
// another worker's progress.
func Validate(ctx context.Context, pool *Pool, opts ValidateOptions, log *enemylog.Logger) int {
	if log == nil {
		log = enemylog.Nop()
	}
	opts = opts.clamp()

	snapshot := pool.Snapshot()
	if len(snapshot) == 0 {
		return -1
	}

	var indexMu sync.Mutex
	nextIndex := 0

	var statsMu sync.Mutex
	working := 0
	perType := map[Type]int{}

	var logMu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				indexMu.Lock()
				i := nextIndex
				nextIndex++
				indexMu.Unlock()
				if i >= len(snapshot) {
					return
				}

				px := snapshot[i]
				validateOne(ctx, px, opts, log, &logMu)

				statsMu.Lock()
				if px.Validated {
					working++
					perType[px.DetectedType]++
				}
				statsMu.Unlock()
			}
		}()
	}
	wg.Wait()

	pool.removeNonValidated()

	logMu.Lock()
	log.Info("validation sweep complete", "working", working, "total", len(snapshot),
		"http", perType[HTTP], "https", perType[HTTPS], "socks4", perType[SOCKS4], "socks5", perType[SOCKS5])
	logMu.Unlock()

	return working
}

// validateOne determines the attempt order for px and runs it. The
// declared-vs-auto-detect split is kept as two separate functions rather
// than folded into a single loop with a one-element array masquerading as
// a loop, per SPEC_FULL's Redesign Patterns note.
func validateOne(ctx context.Context, px *Proxy, opts ValidateOptions, log *enemylog.Logger, logMu *sync.Mutex) {
	logMu.Lock()
	log.Debug("validating proxy", "proxy", px.Addr(), "declared", px.DeclaredType.String())
	logMu.Unlock()

	total := StartRTT()
	var ok bool
	if px.DeclaredType != None {
		ok = attemptDeclared(ctx, px, opts)
	} else {
		ok = attemptAutoDetect(ctx, px, opts)
	}
	elapsed := total.Stop()

	logMu.Lock()
	if ok {
		log.Success("proxy validated", "proxy", px.Addr(), "type", px.DetectedType.String(),
			"rtt_ms", px.LastRTT.Milliseconds(), "elapsed_ms", elapsed.Milliseconds())
	} else {
		log.Error("proxy removed", "proxy", px.Addr(), "elapsed_ms", elapsed.Milliseconds())
	}
	logMu.Unlock()
}

// attemptDeclared tries only px's declared type.
func attemptDeclared(ctx context.Context, px *Proxy, opts ValidateOptions) bool {
	rtt, err := attemptType(ctx, px, px.DeclaredType, opts)
	if err != nil {
		markFailure(px)
		return false
	}
	markSuccess(px, px.DeclaredType, rtt)
	return true
}

// attemptAutoDetect tries SOCKS5, then SOCKS4, then HTTP, stopping at the
// first success.
func attemptAutoDetect(ctx context.Context, px *Proxy, opts ValidateOptions) bool {
	for _, typ := range autoDetectOrder {
		rtt, err := attemptType(ctx, px, typ, opts)
		if err == nil {
			markSuccess(px, typ, rtt)
			return true
		}
	}
	markFailure(px)
	return false
}

// attemptType dials px as if it declared typ and runs that handshake against
// opts.TestHost:opts.TestPort, returning how long the whole Dial call took:
// the TCP connect and the handshake together. The connect phase is not
// timed on its own.
func attemptType(ctx context.Context, px *Proxy, typ Type, opts ValidateOptions) (time.Duration, error) {
	probe := &Proxy{
		Host:         px.Host,
		Port:         px.Port,
		Username:     px.Username,
		Password:     px.Password,
		DeclaredType: typ,
		ResolvedAddr: px.ResolvedAddr,
	}
	timer := StartRTT()
	conn, err := Dial(ctx, probe, opts.TestHost, opts.TestPort, DialOptions{
		ConnectTimeout:   opts.Timeout,
		HandshakeTimeout: opts.Timeout,
	})
	rtt := timer.Stop()
	if err != nil {
		return rtt, err
	}
	conn.Close()
	return rtt, nil
}

func markSuccess(px *Proxy, typ Type, rtt time.Duration) {
	px.Validated = true
	px.IsActive = true
	px.DetectedType = typ
	px.LastRTT = rtt
	px.HasAuth = px.Username != ""
}

func markFailure(px *Proxy) {
	px.Validated = false
	px.IsActive = false
	px.DetectedType = None
	px.LastRTT = 0
}
