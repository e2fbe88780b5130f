package solana

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Connection states
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"

	// Reconnect settings
	maxReconnectAttempts = 10
	reconnectDelay       = 5 * time.Second

	// Error threshold
	maxErrorCount = 6 // Maximum consecutive errors before giving up the stream
)

// ConfirmationCallback receives the terminal outcome of a watched signature.
type ConfirmationCallback func(signature string, success bool, reason string)

// ConfirmationListener keeps a single WebSocket connection to the cluster and
// uses signatureSubscribe to learn when watched transfers land. Signature
// subscriptions are one-shot on the cluster side, so each watched signature
// fires the callback at most once per subscription. Signatures that were
// watched but not yet resolved are re-subscribed after a reconnect.
type ConfirmationListener struct {
	wsEndpoint string
	callback   ConfirmationCallback

	conn        *websocket.Conn
	status      string
	pending     map[int64]string   // request id -> signature, awaiting subscription confirmation
	active      map[float64]string // subscription id -> signature
	watched     map[string]bool    // signatures not yet resolved
	nextID      int64
	errorCount  int
	reconnectCh chan bool
	stopCh      chan bool
	mu          sync.Mutex
}

// NewConfirmationListener builds a listener against DEFAULT_SOLANA_WSS.
func NewConfirmationListener(callback ConfirmationCallback) (*ConfirmationListener, error) {
	wsEndpoint := os.Getenv("DEFAULT_SOLANA_WSS")
	if wsEndpoint == "" {
		return nil, fmt.Errorf("DEFAULT_SOLANA_WSS not configured")
	}

	return &ConfirmationListener{
		wsEndpoint:  wsEndpoint,
		callback:    callback,
		status:      StateDisconnected,
		pending:     make(map[int64]string),
		active:      make(map[float64]string),
		watched:     make(map[string]bool),
		nextID:      1,
		reconnectCh: make(chan bool, 1),
		stopCh:      make(chan bool, 1),
	}, nil
}

// Start runs the connect/reconnect loop in a goroutine.
func (l *ConfirmationListener) Start() {
	go l.connectAndListen()
}

// Stop closes the connection and ends the loop.
func (l *ConfirmationListener) Stop() {
	close(l.stopCh)
}

// Status returns the current connection state.
func (l *ConfirmationListener) Status() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Watch subscribes to the outcome of a submitted transfer signature.
func (l *ConfirmationListener) Watch(signature string) error {
	l.mu.Lock()
	if l.watched[signature] {
		l.mu.Unlock()
		return nil
	}
	l.watched[signature] = true
	c := l.conn
	connected := l.status == StateConnected
	l.mu.Unlock()

	if !connected || c == nil {
		// Will be subscribed once the connection is (re)established.
		return nil
	}
	return l.subscribe(c, signature)
}

func (l *ConfirmationListener) subscribe(c *websocket.Conn, signature string) error {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.pending[id] = signature
	l.mu.Unlock()

	subscribeMsg := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "signatureSubscribe",
		"params": []interface{}{
			signature,
			map[string]interface{}{
				"commitment": "finalized",
			},
		},
	}
	if err := c.WriteJSON(subscribeMsg); err != nil {
		log.WithFields(log.Fields{
			"signature": signature,
			"error":     err.Error(),
		}).Error("Failed to send signature subscription")
		return err
	}
	return nil
}

func (l *ConfirmationListener) connectAndListen() {
	reconnectAttempts := 0

	for {
		select {
		case <-l.stopCh:
			l.mu.Lock()
			if l.conn != nil {
				l.conn.Close()
			}
			l.mu.Unlock()
			log.Info("Confirmation listener stopped")
			return
		default:
			l.mu.Lock()
			l.status = StateConnecting
			l.mu.Unlock()

			c, _, err := websocket.DefaultDialer.Dial(l.wsEndpoint, nil)
			if err != nil {
				log.WithFields(log.Fields{
					"error": err.Error(),
				}).Error("Failed to connect to Solana WebSocket")
				reconnectAttempts++
				if reconnectAttempts >= maxReconnectAttempts {
					log.WithFields(log.Fields{
						"reconnect_attempts": reconnectAttempts,
					}).Error("Max reconnect attempts reached, stopping listener")
					return
				}
				time.Sleep(reconnectDelay)
				continue
			}

			l.mu.Lock()
			l.conn = c
			l.status = StateConnected
			l.pending = make(map[int64]string)
			l.active = make(map[float64]string)
			l.errorCount = 0
			resubscribe := make([]string, 0, len(l.watched))
			for sig := range l.watched {
				resubscribe = append(resubscribe, sig)
			}
			l.mu.Unlock()

			reconnectAttempts = 0
			log.WithFields(log.Fields{
				"watched": len(resubscribe),
			}).Info("Connected to Solana WebSocket")

			for _, sig := range resubscribe {
				if err := l.subscribe(c, sig); err != nil {
					break
				}
			}

			go l.readMessages(c)

			select {
			case <-l.reconnectCh:
				c.Close()
				time.Sleep(reconnectDelay)
			case <-l.stopCh:
				c.Close()
				return
			}
		}
	}
}

func (l *ConfirmationListener) readMessages(c *websocket.Conn) {
	defer func() {
		l.mu.Lock()
		c.Close()
		l.status = StateDisconnected
		l.mu.Unlock()

		select {
		case l.reconnectCh <- true:
		default:
		}
	}()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			log.WithFields(log.Fields{
				"error": err.Error(),
			}).Error("Error reading WebSocket message")
			return
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.WithFields(log.Fields{
				"error": err.Error(),
			}).Error("Failed to unmarshal WebSocket message")
			l.mu.Lock()
			l.errorCount++
			tooMany := l.errorCount >= maxErrorCount
			l.mu.Unlock()
			if tooMany {
				log.Error("Error count exceeded threshold, forcing reconnect")
				return
			}
			continue
		}

		// Subscription confirmation: {"jsonrpc":"2.0","result":<sub_id>,"id":<n>}
		if id, hasID := msg["id"]; hasID {
			if result, ok := msg["result"].(float64); ok {
				reqID := int64(0)
				if f, ok := id.(float64); ok {
					reqID = int64(f)
				}
				l.mu.Lock()
				if sig, ok := l.pending[reqID]; ok {
					delete(l.pending, reqID)
					l.active[result] = sig
				}
				l.mu.Unlock()
				continue
			}
		}

		// Outcome notification:
		// {"method":"signatureNotification","params":{"result":{"value":{"err":...}},"subscription":<id>}}
		if method, ok := msg["method"].(string); ok && method == "signatureNotification" {
			params, ok := msg["params"].(map[string]interface{})
			if !ok {
				continue
			}
			subID, ok := params["subscription"].(float64)
			if !ok {
				continue
			}

			l.mu.Lock()
			sig, found := l.active[subID]
			if found {
				delete(l.active, subID)
				delete(l.watched, sig)
			}
			l.mu.Unlock()
			if !found {
				continue
			}

			success := true
			reason := ""
			if result, ok := params["result"].(map[string]interface{}); ok {
				if value, ok := result["value"].(map[string]interface{}); ok {
					if txErr, hasErr := value["err"]; hasErr && txErr != nil {
						success = false
						if errBytes, err := json.Marshal(txErr); err == nil {
							reason = string(errBytes)
						} else {
							reason = fmt.Sprintf("%v", txErr)
						}
					}
				}
			}

			log.WithFields(log.Fields{
				"signature": sig,
				"success":   success,
			}).Info("Transfer signature resolved")
			if l.callback != nil {
				go l.callback(sig, success, reason)
			}
		}
	}
}
