package bluebox

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/metrics"
)

// Command words and the canonical null placeholder of the tunnel protocol.
const (
	cmdConnect    = "connect"
	cmdPoll       = "poll"
	cmdData       = "data"
	cmdDisconnect = "disconnect"

	nullValue = "null"
)

// Error responses, byte-for-byte what the client's tunnel layer matches on.
const (
	respInvalidSession = "err01|Invalid http session !"
	respDataError      = "err01|Data error"
	respUnknownCommand = "err01|Unknown command"
)

// Handler processes BlueBox.do commands against the session registry and
// the processor.
type Handler struct {
	proc     *processor.Processor
	sessions *session.Registry
	metrics  metrics.TransportMetrics
}

// NewHandler creates the command handler. m may be nil.
func NewHandler(proc *processor.Processor, sessions *session.Registry, m metrics.TransportMetrics) *Handler {
	if m == nil {
		m = metrics.NopTransport()
	}
	return &Handler{proc: proc, sessions: sessions, metrics: m}
}

// ServeCommand handles one POST /BlueBox/BlueBox.do exchange. The sfsHttp
// form field decodes to "sessionId|command|data"; some client builds append
// a trailing NUL, which is stripped before the split.
func (h *Handler) ServeCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.reply(w, cmdData, respDataError)
		return
	}
	raw := strings.TrimRight(r.PostFormValue("sfsHttp"), "\x00")
	parts := strings.SplitN(raw, "|", 3)
	if len(parts) < 2 {
		h.reply(w, "malformed", respUnknownCommand)
		return
	}
	sessionID, command := parts[0], parts[1]
	data := nullValue
	if len(parts) == 3 {
		data = parts[2]
	}

	switch command {
	case cmdConnect:
		h.handleConnect(w, r)
	case cmdPoll:
		h.handlePoll(w, sessionID)
	case cmdData:
		h.handleData(w, r, sessionID, data)
	case cmdDisconnect:
		h.handleDisconnect(w, sessionID)
	default:
		logger.Debug("Unknown BlueBox command", "command", command)
		h.reply(w, command, respUnknownCommand)
	}
}

// handleConnect creates a session; the sessionId field of the request is
// ignored (the client sends "null").
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create(session.TransportBlueBox, ClientIP(r))
	if err != nil {
		logger.Error("Create BlueBox session", "error", err)
		h.reply(w, cmdConnect, respDataError)
		return
	}
	h.metrics.SetActiveConnections(int32(h.sessions.Count()))
	h.reply(w, cmdConnect, cmdConnect+"|"+s.ID)
}

// handlePoll pops one queued frame. Non-blocking: an empty queue answers
// "poll|null" and the client re-polls on its own cadence.
func (h *Handler) handlePoll(w http.ResponseWriter, sessionID string) {
	s, err := h.sessions.Get(sessionID)
	if err != nil {
		h.reply(w, cmdPoll, respInvalidSession)
		return
	}
	h.sessions.Touch(sessionID)

	frame, ok := s.Poll()
	if !ok {
		frame = nullValue
	}
	h.reply(w, cmdPoll, cmdPoll+"|"+frame)
}

// handleData decodes the base64 frame and runs it through the processor.
// Replies flow out through later polls; the HTTP response only acks.
func (h *Handler) handleData(w http.ResponseWriter, r *http.Request, sessionID, data string) {
	if _, err := h.sessions.Get(sessionID); err != nil {
		h.reply(w, cmdData, respInvalidSession)
		return
	}
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		h.reply(w, cmdData, respDataError)
		return
	}

	if err := h.proc.Process(r.Context(), sessionID, payload); err != nil {
		if errors.Is(err, session.ErrUnknownSession) {
			h.reply(w, cmdData, respInvalidSession)
			return
		}
		h.reply(w, cmdData, respDataError)
		return
	}
	h.reply(w, cmdData, cmdData+"|"+nullValue)
}

// handleDisconnect destroys the session, cascading its room memberships.
func (h *Handler) handleDisconnect(w http.ResponseWriter, sessionID string) {
	if _, err := h.sessions.Get(sessionID); err != nil {
		h.reply(w, cmdDisconnect, respInvalidSession)
		return
	}
	h.proc.DisconnectSession(sessionID, "client disconnect")
	h.metrics.SetActiveConnections(int32(h.sessions.Count()))
	h.reply(w, cmdDisconnect, cmdDisconnect+"|"+nullValue)
}

// reply writes the response body and records the command outcome.
func (h *Handler) reply(w http.ResponseWriter, command, body string) {
	outcome := "ok"
	if strings.HasPrefix(body, "err01|") {
		outcome = "error"
	}
	h.metrics.RecordBlueBoxRequest(command, outcome)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Debug("BlueBox response write failed", "error", err)
	}
}
