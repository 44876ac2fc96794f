package proxypool

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/kofany/enemy/pkg/proxypool/perrors"
)

// Stats summarizes the current contents of a Pool.
type Stats struct {
	Total      int
	Active     int
	Validated  int
	PerType    map[Type]int
}

// Pool is an ordered, owning collection of Proxy records with a round-robin
// cursor. It replaces the source's intrusive doubly-linked list: entries
// live in a plain slice, and the cursor is an index rather than a pointer,
// so there is no cyclic ownership to reason about.
type Pool struct {
	mu      sync.RWMutex
	proxies []*Proxy
	cursor  int
	haveCur bool

	sourcePath  string
	defaultType Type
}

// New returns an empty Pool.
func New() *Pool {
	return &Pool{}
}

// Load replaces the pool entirely from a proxy-list file. Parse failures on
// individual lines are skipped, not fatal; the first DNS/parse error is not
// returned to the caller — only a read failure on the file itself is.
func (p *Pool) Load(path string, defaultType Type) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open proxy file: %w", err)
	}
	defer f.Close()

	var proxies []*Proxy
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		px, perr := ParseLine(scanner.Text(), defaultType)
		if perr != nil || px == nil {
			continue
		}
		proxies = append(proxies, px)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read proxy file: %w", err)
	}

	p.mu.Lock()
	p.proxies = proxies
	p.cursor = 0
	p.haveCur = false
	p.sourcePath = path
	p.defaultType = defaultType
	p.mu.Unlock()
	return nil
}

// Clear empties the pool. Calling it twice leaves the pool empty both times.
func (p *Pool) Clear() {
	p.mu.Lock()
	p.proxies = nil
	p.cursor = 0
	p.haveCur = false
	p.mu.Unlock()
}

// Count returns the number of proxies currently in the pool.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.proxies)
}

// Next advances the round-robin cursor and returns the next usable proxy,
// wrapping at the tail. Before any validation sweep has run, every parsed
// proxy is usable (IsActive defaults true at parse time — see SPEC_FULL's
// Open Question #1 decision); after a sweep, entries with IsActive=false are
// skipped. Returns nil if no usable entry exists.
func (p *Pool) Next() *Proxy {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.proxies)
	if n == 0 {
		return nil
	}

	start := 0
	if p.haveCur {
		start = (p.cursor + 1) % n
	}
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if p.proxies[idx].IsActive {
			p.cursor = idx
			p.haveCur = true
			return p.proxies[idx]
		}
	}
	return nil
}

// Remove unlinks px from the pool. If px was the cursor, the cursor moves one
// slot behind px's old position so the next Next() call yields its successor
// (or wraps to head).
func (p *Pool) Remove(px *Proxy) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, cand := range p.proxies {
		if cand != px {
			continue
		}
		wasCursor := p.haveCur && i == p.cursor
		p.proxies = append(p.proxies[:i], p.proxies[i+1:]...)

		n := len(p.proxies)
		if n == 0 {
			p.cursor = 0
			p.haveCur = false
			return
		}
		switch {
		case wasCursor:
			// The removed entry's successor shifted into index i (or, if i
			// was the tail, sits at index 0); either way it's reached by
			// landing the cursor one slot behind it, wraparound included.
			p.cursor = (i - 1 + n) % n
		case i < p.cursor:
			p.cursor--
		}
		return
	}
}

// removeNonValidated performs the two-phase sweep the validator runs after a
// sweep completes: collect the proxies to drop, then apply the removal in
// one pass, rather than mutating the slice while iterating over it.
func (p *Pool) removeNonValidated() {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.proxies[:0:0]
	for _, px := range p.proxies {
		if px.Validated {
			kept = append(kept, px)
		}
	}
	p.proxies = kept
	p.cursor = 0
	p.haveCur = false
}

// Snapshot returns a copy of the current proxy slice for the validator to
// index into without holding the pool lock during I/O.
func (p *Pool) Snapshot() []*Proxy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Proxy, len(p.proxies))
	copy(out, p.proxies)
	return out
}

// Stats summarizes the pool's current contents.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := Stats{Total: len(p.proxies), PerType: map[Type]int{}}
	for _, px := range p.proxies {
		if px.IsActive {
			s.Active++
		}
		if px.Validated {
			s.Validated++
			s.PerType[px.DetectedType]++
		}
	}
	return s
}

// SaveValidated writes one line per proxy in canonical form,
// "[scheme://][user:pass@]host:port", using each proxy's DetectedType.
func (p *Pool) SaveValidated(path string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create saved-proxy file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, px := range p.proxies {
		if _, err := fmt.Fprintln(w, CanonicalForm(px, px.DetectedType)); err != nil {
			return err
		}
	}
	return w.Flush()
}

// CanonicalForm renders px as "[scheme://][user:pass@]host:port" using typ
// as the scheme source (empty scheme if typ is None). The credentials block
// is emitted only when both username and password are non-empty.
func CanonicalForm(px *Proxy, typ Type) string {
	var scheme string
	if s := typ.String(); s != "" {
		scheme = s + "://"
	}
	var creds string
	if px.Username != "" && px.Password != "" {
		creds = px.Username + ":" + px.Password + "@"
	}
	return fmt.Sprintf("%s%s%s:%d", scheme, creds, px.Host, px.Port)
}

// ErrEmpty is an error value describing an empty pool. No operation in this
// package returns it: Next reports an empty pool with nil and Validate with -1.
var ErrEmpty = perrors.New(perrors.Parse, "pool", "", "pool is empty", nil)
