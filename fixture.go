package badssl

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Fixture is a single target paired with its expected [Category].
type Fixture struct {
	// Target is a URL for HTTP fixtures and a host name for socket fixtures.
	Target string

	// Port is only set on socket fixtures.
	Port int

	Category Category

	// Description names the fixture in test output.
	Description string
}

// Name returns the subtest name of the fixture.
func (f Fixture) Name() string {
	if f.Description != "" {
		return f.Description
	}
	return f.Target
}

// Addr returns the host:port the fixture connects to. For URL targets the port defaults from the
// scheme.
func (f Fixture) Addr() string {
	if f.Port != 0 {
		return net.JoinHostPort(f.Target, strconv.Itoa(f.Port))
	}
	u, err := url.Parse(f.Target)
	if err != nil || u.Host == "" {
		return f.Target
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}

// Host returns the host name the fixture connects to.
func (f Fixture) Host() string {
	host, _, err := net.SplitHostPort(f.Addr())
	if err != nil {
		return f.Target
	}
	return host
}

// Fixtures is an ordered fixture table.
type Fixtures []Fixture

// Filter keeps the fixtures whose category is one of cats. With no categories it returns a copy
// of fs.
func (fs Fixtures) Filter(cats ...Category) Fixtures {
	out := make(Fixtures, 0, len(fs))
	for _, f := range fs {
		if len(cats) == 0 {
			out = append(out, f)
			continue
		}
		for _, c := range cats {
			if f.Category == c {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// Match keeps the fixtures whose target or description contains substr.
func (fs Fixtures) Match(substr string) Fixtures {
	out := make(Fixtures, 0, len(fs))
	for _, f := range fs {
		if strings.Contains(f.Target, substr) || strings.Contains(f.Description, substr) {
			out = append(out, f)
		}
	}
	return out
}

// HTTPFixtures returns the badssl.com URL table. The caller owns the returned slice.
func HTTPFixtures() Fixtures {
	return Fixtures{
		{Target: "https://wrong.host.badssl.com/", Category: Bad, Description: "wrong.host"},
		{Target: "https://captive-portal.badssl.com", Category: Bad, Description: "captive-portal"},
		{Target: "https://expired.badssl.com/", Category: Bad, Description: "expired"},
		{Target: "https://google.com", Category: Good, Description: "good"},
		{Target: "https://self-signed.badssl.com/", Category: Bad, Description: "self-signed"},
		{Target: "https://untrusted-root.badssl.com/", Category: Bad, Description: "untrusted-root"},
		{Target: "https://revoked.badssl.com/", Category: BadBroken, Description: "revoked"},
		{Target: "https://pinning-test.badssl.com/", Category: BadBroken, Description: "pinning-test"},
		{Target: "https://no-common-name.badssl.com/", Category: DubiousBroken, Description: "no-common-name"},
		{Target: "https://no-subject.badssl.com/", Category: DubiousBroken, Description: "no-subject"},
		{Target: "https://incomplete-chain.badssl.com/", Category: DubiousBroken, Description: "incomplete-chain"},
		{Target: "https://sha1-intermediate.badssl.com/", Category: Bad, Description: "sha1-intermediate"},
		{Target: "https://sha256.badssl.com/", Category: Good, Description: "sha256"},
		{Target: "https://sha384.badssl.com/", Category: Good, Description: "sha384"},
		{Target: "https://sha512.badssl.com/", Category: Good, Description: "sha512"},
		{Target: "https://1000-sans.badssl.com/", Category: Good, Description: "1000-sans"},
		{Target: "https://10000-sans.badssl.com/", Category: GoodBroken, Description: "10000-sans"},
		{Target: "https://ecc256.badssl.com/", Category: Good, Description: "ecc256"},
		{Target: "https://ecc384.badssl.com/", Category: Good, Description: "ecc384"},
		{Target: "https://rsa2048.badssl.com/", Category: Good, Description: "rsa2048"},
		{Target: "https://rsa8192.badssl.com/", Category: DubiousBroken, Description: "rsa8192"},
		{Target: "http://http.badssl.com/", Category: Good, Description: "regular http"},
		{Target: "https://http.badssl.com/", Category: BadBroken, Description: "http on https URL"},
		{Target: "https://cbc.badssl.com/", Category: Dubious, Description: "cbc"},
		{Target: "https://rc4-md5.badssl.com/", Category: Bad, Description: "rc4-md5"},
		{Target: "https://rc4.badssl.com/", Category: Bad, Description: "rc4"},
		{Target: "https://3des.badssl.com/", Category: Bad, Description: "3des"},
		{Target: "https://null.badssl.com/", Category: Bad, Description: "null"},
		{Target: "https://mozilla-old.badssl.com/", Category: BadBroken, Description: "mozilla-old"},
		{Target: "https://mozilla-intermediate.badssl.com/", Category: DubiousBroken, Description: "mozilla-intermediate"},
		{Target: "https://mozilla-modern.badssl.com/", Category: Good, Description: "mozilla-modern"},
		{Target: "https://dh480.badssl.com/", Category: Bad, Description: "dh480"},
		{Target: "https://dh512.badssl.com/", Category: Bad, Description: "dh512"},
		{Target: "https://dh1024.badssl.com/", Category: Dubious, Description: "dh1024"},
		{Target: "https://dh2048.badssl.com/", Category: Good, Description: "dh2048"},
		{Target: "https://dh-small-subgroup.badssl.com/", Category: BadBroken, Description: "dh-small-subgroup"},
		{Target: "https://dh-composite.badssl.com/", Category: BadBroken, Description: "dh-composite"},
		{Target: "https://static-rsa.badssl.com/", Category: Dubious, Description: "static-rsa"},
		{Target: "https://tls-v1-0.badssl.com:1010/", Category: Dubious, Description: "tls-v1-0"},
		{Target: "https://tls-v1-1.badssl.com:1011/", Category: Dubious, Description: "tls-v1-1"},
		{Target: "https://invalid-expected-sct.badssl.com/", Category: Bad, Description: "invalid-expected-sct"},
		{Target: "https://no-sct.badssl.com/", Category: Good, Description: "no-sct"},
		{Target: "https://mixed-script.badssl.com/", Category: Dubious, Description: "mixed-script"},
		{Target: "https://very.badssl.com/", Category: Dubious, Description: "very"},
		{Target: "https://mixed.badssl.com/", Category: Dubious, Description: "mixed"},
		{Target: "https://mixed-favicon.badssl.com/", Category: Dubious, Description: "mixed-favicon"},
		{Target: "https://mixed-form.badssl.com/", Category: Dubious, Description: "mixed-form"},
		{Target: "https://spoofed-favicon.badssl.com/", Category: Dubious, Description: "spoofed-favicon"},
		{Target: "https://lock-title.badssl.com/", Category: Dubious, Description: "lock-title"},
		{
			Target:      "https://long-extended-subdomain-name-containing-many-letters-and-dashes.badssl.com/",
			Category:    Dubious,
			Description: "long-extended-subdomain-name-containing-many-letters-and-dashes",
		},
		{
			Target:      "https://longextendedsubdomainnamewithoutdashesinordertotestwordwrapping.badssl.com/",
			Category:    Dubious,
			Description: "longextendedsubdomainnamewithoutdashesinordertotestwordwrapping",
		},
		{Target: "https://superfish.badssl.com/", Category: Bad, Description: "(Lenovo) Superfish"},
		{Target: "https://edellroot.badssl.com/", Category: Bad, Description: "(Dell) eDellRoot"},
		{Target: "https://dsdtestprovider.badssl.com/", Category: Bad, Description: "(Dell) DSD Test Provider"},
		{Target: "https://preact-cli.badssl.com/", Category: Bad, Description: "preact-cli"},
		{Target: "https://webpack-dev-server.badssl.com/", Category: Bad, Description: "webpack-dev-server"},
	}
}

// SocketFixtures returns the host:port table used by the raw socket suites. The caller owns the
// returned slice.
func SocketFixtures() Fixtures {
	return Fixtures{
		{Target: "www.google.com", Port: 443, Category: Good, Description: "google"},
		{Target: "wrong.host.badssl.com", Port: 443, Category: Bad, Description: "wrong.host"},
		{Target: "captive-portal.badssl.com", Port: 443, Category: Bad, Description: "captive-portal"},
		{Target: "expired.badssl.com", Port: 443, Category: Bad, Description: "expired"},
		{Target: "self-signed.badssl.com", Port: 443, Category: Bad, Description: "self-signed"},
	}
}
