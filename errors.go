package badssl

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"strings"
	"syscall"
)

var (
	ErrEmptyTarget       = errors.New("badssl: fixture has no target")
	ErrNoPeerCertificate = errors.New("badssl: peer presented no certificate")
	ErrUnknownSuite      = errors.New("badssl: unknown suite")
)

// HandshakeError wraps an error raised before the TLS handshake with the peer completed.
type HandshakeError struct {
	Err error
}

func (e *HandshakeError) Error() string { return e.Err.Error() }
func (e *HandshakeError) Unwrap() error { return e.Err }

// DescribeError converts a connection error into the failure message recorded in an [Outcome].
//
// Verification errors are reported in the vocabulary of the allow-lists so that a rejection for
// the right reason is recognized regardless of which layer raised it. A peer hanging up is only
// a shutdown while in init when it happens inside a [HandshakeError]; once the handshake is done
// the peer was accepted and the error keeps its own text, as does anything else that is not about
// the peer's trustworthiness.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoPeerCertificate) {
		return MsgNoCertificate
	}

	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return MsgCertificateCheck
	}
	var verifyErr *tls.CertificateVerificationError
	var authErr x509.UnknownAuthorityError
	var invalidErr x509.CertificateInvalidError
	var constraintErr x509.ConstraintViolationError
	var unhandledErr x509.UnhandledCriticalExtension
	var insecureErr x509.InsecureAlgorithmError
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &authErr),
		errors.As(err, &invalidErr),
		errors.As(err, &constraintErr),
		errors.As(err, &unhandledErr),
		errors.As(err, &insecureErr):
		return MsgVerifyFailed + ": " + err.Error()
	}

	if isKeyTooSmall(err) {
		return MsgKeyTooSmall + ": " + err.Error()
	}
	var hsErr *HandshakeError
	if errors.As(err, &hsErr) && isHangUp(hsErr.Err) {
		return MsgShutdownWhileInit + ": " + err.Error()
	}
	return err.Error()
}

func isHangUp(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE)
}

// isKeyTooSmall recognizes the key size rejections of crypto/rsa and crypto/tls, which are not
// exported as types.
func isKeyTooSmall(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "keys are insecure") ||
		strings.Contains(msg, "key too small") ||
		strings.Contains(msg, "insecure key size")
}
