package realtime

import (
	"net/http"
	"strings"
)

// bridgeSource opens the socket back to the host and defines the
// window.tissue functions the form calls. Posts made before the socket is
// open are queued.
const bridgeSource = `(function () {
	var scheme = location.protocol === "https:" ? "wss://" : "ws://";
	var ws = new WebSocket(scheme + location.host + "/ws?token={{TOKEN}}");
	var pending = [];
	function send(type, payload) {
		var data = JSON.stringify({type: type, payload: payload, timestamp: new Date().toISOString()});
		if (ws.readyState === WebSocket.OPEN) {
			ws.send(data);
		} else {
			pending.push(data);
		}
	}
	ws.onopen = function () {
		pending.forEach(function (data) { ws.send(data); });
		pending = [];
	};
	ws.onmessage = function (ev) {
		var msg = JSON.parse(ev.data);
		if (msg.type === "script.eval") {
			(0, eval)(msg.payload.script);
		} else if (msg.type === "page.reload") {
			location.reload();
		} else if (msg.type === "error") {
			console.error(msg.payload.code + ": " + msg.payload.message);
		}
	};
	window.tissue = {
		post: function (m) { send("form.submit", {values: String(m)}); },
		result: function (r) { send("script.result", {result: String(r)}); }
	};
})();`

// Bridge returns the page script bound to this server's socket token.
func (s *Server) Bridge() string {
	return strings.Replace(bridgeSource, "{{TOKEN}}", s.token, 1)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.docMu.RLock()
	doc := s.doc
	s.docMu.RUnlock()

	if doc == "" {
		http.Error(w, "document not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(doc))
}
