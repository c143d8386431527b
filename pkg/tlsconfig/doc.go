/*
Package tlsconfig builds the server-side crypto/tls.Config warden
listens with: certificate/key loading, a restricted cipher suite and
minimum version, and an optional NSS-format key log for debugging TLS
sessions with Wireshark. Every secret-logging path is loud on purpose
-- enabling it is a deliberate, visible choice, never a silent default.
*/
package tlsconfig
