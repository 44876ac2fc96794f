package proxypool

import "testing"

// TestParseRoundTrip checks SPEC_FULL's universal round-trip property: for
// every proxy successfully parsed, re-serializing via the canonical save
// form and re-parsing it yields an identical host/port/username/password.
func TestParseRoundTrip(t *testing.T) {
	px, err := ParseLine("socks5://u:p@198.51.100.4:1080", None)
	if err != nil {
		t.Fatalf("ParseLine error: %v", err)
	}
	px.DetectedType = SOCKS5 // as if validated

	saved := CanonicalForm(px, px.DetectedType)
	reparsed, err := ParseLine(saved, None)
	if err != nil {
		t.Fatalf("re-parse of %q failed: %v", saved, err)
	}

	if reparsed.Host != px.Host || reparsed.Port != px.Port ||
		reparsed.Username != px.Username || reparsed.Password != px.Password ||
		reparsed.DeclaredType != px.DetectedType {
		t.Errorf("round trip mismatch: got %+v, from %+v (saved=%q)", reparsed, px, saved)
	}
}

func TestTypeString(t *testing.T) {
	cases := map[Type]string{
		None:   "",
		HTTP:   "http",
		HTTPS:  "https",
		SOCKS4: "socks4",
		SOCKS5: "socks5",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("Type(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

func TestParseType(t *testing.T) {
	if _, ok := ParseType("ftp"); ok {
		t.Error("ParseType(\"ftp\") ok = true, want false")
	}
	typ, ok := ParseType("socks5")
	if !ok || typ != SOCKS5 {
		t.Errorf("ParseType(\"socks5\") = (%v, %v), want (SOCKS5, true)", typ, ok)
	}
}
