package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Neutronpay-Signature"

// EventSink receives verified payment events. The payment correlator
// implements it.
type EventSink interface {
	OnEvent(event entity.PaymentEvent)
}

type Server struct {
	addr   string
	secret string
	sink   EventSink
	logger output.LoggerPort
}

func NewServer(port int, secret string, sink EventSink, logger output.LoggerPort) *Server {
	return &Server{
		addr:   fmt.Sprintf(":%d", port),
		secret: secret,
		sink:   sink,
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	httpLogger := httplog.NewLogger("webhook", httplog.Options{
		JSON:    true,
		Concise: true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	r.Post("/webhooks/neutron", s.handleWebhook)
	r.Get("/health", s.handleHealth)
	return r
}

// Start runs the server until the context is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Webhook server listening", "addr", s.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if !VerifySignature(body, r.Header.Get(SignatureHeader), s.secret) {
		s.logger.Warn("Webhook signature verification failed")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	// Respond 200 to any verified delivery so the notifier never retries,
	// even when the payload turns out to be unusable.
	event, err := parseEvent(body)
	if err != nil {
		s.logger.Warn("Webhook payload malformed", "error", err)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}

	s.logger.Info("Webhook received", "txnId", event.TxnID, "state", event.TxnState)

	// Respond before forwarding so the notifier never retries on slow
	// downstream handling.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))

	s.sink.OnEvent(event)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// VerifySignature checks the hex HMAC-SHA256 of body against the shared
// secret using a constant-time compare.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func parseEvent(body []byte) (entity.PaymentEvent, error) {
	var event entity.PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return entity.PaymentEvent{}, err
	}
	if event.TxnID == "" {
		return entity.PaymentEvent{}, fmt.Errorf("missing txnId")
	}

	// Keep unrecognized fields available to downstream consumers.
	raw := map[string]interface{}{}
	_ = json.Unmarshal(body, &raw)
	event.Raw = raw
	return event, nil
}
