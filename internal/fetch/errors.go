package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"

	"github.com/flowopt/siteaudit/internal/audit"
)

// classify maps a transport error onto the audit failure taxonomy. The kind
// only feeds the report's reason text.
func classify(err error) audit.FailureKind {
	if err == nil {
		return audit.FailureConnection
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return audit.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return audit.FailureTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return audit.FailureDNS
	}

	var recordErr tls.RecordHeaderError
	var certErr *tls.CertificateVerificationError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &recordErr) ||
		errors.As(err, &certErr) ||
		errors.As(err, &unknownAuthErr) ||
		errors.As(err, &hostnameErr) ||
		strings.Contains(err.Error(), "tls:") {
		return audit.FailureTLS
	}

	return audit.FailureConnection
}
