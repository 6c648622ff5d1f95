// Package helpers holds the gateway's HTTP header handling: bearer extraction and the outbound
// header rewrite applied before a request is forwarded.
package helpers

import (
	"net"
	"net/http"
	"strings"
)

const (
	// HeaderAuthSubject carries the validated token subject to backends. Any client-sent value is
	// removed before forwarding.
	HeaderAuthSubject = "X-Auth-Subject"
	// HeaderAuthorization holds "Bearer <token>".
	HeaderAuthorization = "Authorization"
	// HeaderRequestID correlates gateway and backend logs.
	HeaderRequestID = "X-Request-ID"

	// HeaderRealIP is the direct peer of the gateway. A client-sent value is never forwarded; backends
	// key per-client limits on it.
	HeaderRealIP = "X-Real-IP"

	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderForwardedHost  = "X-Forwarded-Host"
	HeaderForwardedProto = "X-Forwarded-Proto"
)

// hopByHopHeaders apply to a single connection and are never forwarded (RFC 9110 section 7.6.1).
var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// GetBearerToken returns the token from "Authorization: Bearer <token>". The scheme is matched
// case-insensitively and surrounding spaces are trimmed.
//
// Returns: (token, true) or ("", false) when the header is missing, uses another scheme or is empty.
//
// Called from service.Proxy.Handler on non-public routes.
func GetBearerToken(h http.Header) (string, bool) {
	value := strings.TrimSpace(h.Get(HeaderAuthorization))
	scheme, token, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// RemoveHopByHopHeaders deletes the fixed hop-by-hop set and every header named in Connection.
func RemoveHopByHopHeaders(h http.Header) {
	for _, value := range h.Values("Connection") {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopByHopHeaders {
		h.Del(name)
	}
}

// OutboundRequest describes the parts of an inbound request the outbound headers depend on.
type OutboundRequest struct {
	// Subject is the validated token subject; empty on public routes.
	Subject string
	// ForwardAuthorization keeps the client's Authorization header.
	ForwardAuthorization bool
	// RequestID is copied into X-Request-ID when non-empty.
	RequestID string
	// RemoteAddr, Host and TLS feed the X-Forwarded-* headers.
	RemoteAddr string
	Host       string
	TLS        bool
}

// OutboundHeaders returns the header set to send to the backend: a copy of in without hop-by-hop
// headers, without any client-sent X-Auth-Subject, with the validated subject injected, and with
// Authorization dropped unless the route forwards it. X-Real-IP is replaced by the peer address and
// X-Forwarded-For is appended to.
//
// Parameters: in: inbound request headers (not modified); req: subject and connection details.
//
// Called from service.Proxy for every forwarding attempt.
func OutboundHeaders(in http.Header, req OutboundRequest) http.Header {
	out := in.Clone()
	if out == nil {
		out = make(http.Header)
	}
	RemoveHopByHopHeaders(out)
	out.Del(HeaderAuthSubject)
	if req.Subject != "" {
		out.Set(HeaderAuthSubject, req.Subject)
	}
	if !req.ForwardAuthorization {
		out.Del(HeaderAuthorization)
	}
	if req.RequestID != "" {
		out.Set(HeaderRequestID, req.RequestID)
	}
	out.Del(HeaderRealIP)
	if clientIP, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		out.Set(HeaderRealIP, clientIP)
		if prior := out.Values(HeaderForwardedFor); len(prior) > 0 {
			clientIP = strings.Join(prior, ", ") + ", " + clientIP
		}
		out.Set(HeaderForwardedFor, clientIP)
	}
	if req.Host != "" {
		out.Set(HeaderForwardedHost, req.Host)
	}
	proto := "http"
	if req.TLS {
		proto = "https"
	}
	out.Set(HeaderForwardedProto, proto)
	return out
}

// CopyResponseHeaders copies backend response headers into dst, skipping hop-by-hop headers.
func CopyResponseHeaders(dst, src http.Header) {
	filtered := src.Clone()
	RemoveHopByHopHeaders(filtered)
	for name, values := range filtered {
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}
