// Package telegram is a minimal Bot API client for delivering reports to a
// chat: one document upload and one plain-text message call.
//
// Chat ids are numeric ids or "@channel" names. Outbound calls honor the
// caller's context and a client timeout. Proxies of type "http" and
// "socks5" are dialed through the HTTP transport; "nginx" treats the proxy
// host as a replacement API base URL with optional basic auth. SOCKS4 is
// not supported.
package telegram
