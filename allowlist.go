package badssl

import "strings"

// Matcher matches a failure message either exactly or by substring.
type Matcher struct {
	Pattern string
	Exact   bool
}

// Exactly matches messages equal to s.
func Exactly(s string) Matcher { return Matcher{Pattern: s, Exact: true} }

// Containing matches messages that contain s.
func Containing(s string) Matcher { return Matcher{Pattern: s} }

// Match reports whether msg is matched by m.
func (m Matcher) Match(msg string) bool {
	if m.Exact {
		return msg == m.Pattern
	}
	return strings.Contains(msg, m.Pattern)
}

func (m Matcher) String() string {
	if m.Exact {
		return "exactly " + m.Pattern
	}
	return "containing " + m.Pattern
}

// AllowList is the set of failure messages considered an expected reason for rejecting a peer.
type AllowList []Matcher

// Allows reports whether any matcher accepts msg.
func (a AllowList) Allows(msg string) bool {
	for _, m := range a {
		if m.Match(msg) {
			return true
		}
	}
	return false
}

// With returns a new list extended by ms. a is not modified.
func (a AllowList) With(ms ...Matcher) AllowList {
	out := make(AllowList, 0, len(a)+len(ms))
	out = append(out, a...)
	return append(out, ms...)
}

// Failure messages produced by [DescribeError].
const (
	MsgNoCertificate     = "No SSL certificate found."
	MsgCertificateCheck  = "SSL Certificate check failed."
	MsgVerifyFailed      = "certificate verify failed"
	MsgKeyTooSmall       = "key too small"
	MsgShutdownWhileInit = "shutdown while in init"
)

// HTTPAllowList returns the allow-list used by the HTTP suites.
func HTTPAllowList() AllowList {
	return AllowList{
		Exactly(MsgNoCertificate),
		Exactly(MsgCertificateCheck),
		Containing(MsgVerifyFailed),
		Containing(MsgKeyTooSmall),
		Containing(MsgShutdownWhileInit),
	}
}

// SocketAllowList returns the allow-list used by the socket suites.
func SocketAllowList() AllowList {
	return AllowList{
		Exactly(MsgNoCertificate),
		Exactly(MsgCertificateCheck),
		Containing(MsgVerifyFailed),
	}
}
