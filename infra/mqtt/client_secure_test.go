package mqtt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremqtt "github.com/kilianp07/ferry/core/mqtt"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if err := os.WriteFile(caFile, certPEM, 0644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	return
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	if err != nil {
		t.Fatalf("load tls: %v", err)
	}
	if len(tlsCfg.Certificates) == 0 {
		t.Fatalf("no certs loaded")
	}
	if tlsCfg.RootCAs == nil {
		t.Fatalf("no root CAs")
	}
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, DefaultReportTopic, cfg.ReportTopic)
	assert.Equal(t, "ferry", cfg.ClientID)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Error(t, cfg.Validate(), "broker is required")
	cfg.Broker = "tcp://localhost:1883"
	assert.NoError(t, cfg.Validate())
	cfg.QoS = 3
	assert.Error(t, cfg.Validate())
}

func TestPublishAppliesQoSAndRetain(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", QoS: 1, Retain: true})
	require.NoError(t, err)

	require.NoError(t, cli.Publish(context.Background(), "ferry/allocations", []byte(`{"run_id":"r1"}`)))
	require.Len(t, mc.published, 1)
	assert.Equal(t, "ferry/allocations", mc.published[0].topic)
	assert.Equal(t, byte(1), mc.published[0].qos)
	assert.True(t, mc.published[0].retained)
	assert.Equal(t, `{"run_id":"r1"}`, string(mc.published[0].payload))
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1})
	require.NoError(t, err)
	assert.True(t, mc.opts.WillEnabled)
	assert.Equal(t, "lwt", mc.opts.WillTopic)
	assert.Equal(t, "bye", string(mc.opts.WillPayload))
	cli.Disconnect()
	assert.True(t, mc.disconnected)
	assert.Empty(t, mc.published, "unexpected publish on disconnect")
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{errors.New("net fail"), nil}}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1})
	require.NoError(t, err)
	require.NoError(t, cli.Publish(context.Background(), "t", []byte("x")))
	assert.Len(t, mc.published, 2)
}

func TestRetryExhausted(t *testing.T) {
	fail := errors.New("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail}}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)
	err = cli.Publish(context.Background(), "t", []byte("x"))
	assert.ErrorIs(t, err, fail)
	assert.Len(t, mc.published, 3)
}

func TestPublishCanceledDuringBackoff(t *testing.T) {
	mc := &mockClient{publishErrs: []error{errors.New("net fail"), errors.New("net fail")}}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 5, BackoffMS: 10000})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = cli.Publish(ctx, "t", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, mc.published, 1)
}

func TestPublishPreconditions(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	assert.ErrorIs(t, cli.Publish(context.Background(), "", nil), coremqtt.ErrEmptyTopic)

	mc.offline = true
	assert.ErrorIs(t, cli.Publish(context.Background(), "t", nil), coremqtt.ErrNotConnected)
}

func TestConnectError(t *testing.T) {
	mc := &mockClient{connectErr: errors.New("refused")}
	withMockClient(t, mc)
	_, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883"})
	assert.ErrorContains(t, err, "refused")
}

type publishRecord struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// mockClient implements pahoClient and paho.Client for tests
type mockClient struct {
	opts         *paho.ClientOptions
	published    []publishRecord
	publishErrs  []error
	connectErr   error
	offline      bool
	disconnected bool
}

func (m *mockClient) IsConnected() bool { return !m.offline && !m.disconnected }
func (m *mockClient) Connect() paho.Token {
	if m.connectErr != nil {
		return &dummyToken{err: m.connectErr}
	}
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	b, _ := payload.([]byte)
	m.published = append(m.published, publishRecord{topic: topic, qos: qos, retained: retained, payload: b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}
func (m *mockClient) Subscribe(string, byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) Unsubscribe(...string) paho.Token        { return &dummyToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)    {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
func (m *mockClient) IsConnectionOpen() bool                  { return m.IsConnected() }

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }
