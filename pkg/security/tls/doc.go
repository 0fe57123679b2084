/*
Package tls serves the proxy listener over HTTPS.

NewServerConfig turns the proxy.tls section into a crypto/tls configuration
whose certificate comes from a CertificateReloader:

	tlsCfg, err := tls.NewServerConfig(ctx, &cfg.Proxy.TLS, logger)
	if err != nil {
		return err
	}
	httpServer.TLSConfig = tlsCfg
	httpServer.ServeTLS(ln, "", "")

The reloader polls the certificate and key files every ReloadInterval.
Renewed files are picked up by the next handshake; a replacement that fails
to load or has expired is logged and the running certificate is kept.
*/
package tls
