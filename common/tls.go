package common

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"

	"github.com/sirupsen/logrus"
)

// TlsConfig is a PEM CA bundle trusted in addition to the system pool.
type TlsConfig []byte

// HTTPClient returns a client trusting the bundle. An empty bundle yields a
// plain client using the system pool.
func (c TlsConfig) HTTPClient() *http.Client {
	if len(c) == 0 {
		return &http.Client{}
	}
	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		logrus.Warning("Could not load system cert pool")
		rootCAs = x509.NewCertPool()
	}
	if ok := rootCAs.AppendCertsFromPEM(c); !ok {
		logrus.Warning("Could not append custom CA bundle, using system certs only")
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{RootCAs: rootCAs}
	return &http.Client{Transport: tr}
}
