package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/andreasphil/routeutil/pkg/telemetry"
)

// ReloadPath is the WebSocket endpoint browsers connect to.
const ReloadPath = "/_routeutil/reload"

// ReloadMessageType identifies what a reload message asks the browser
// to do.
type ReloadMessageType string

const (
	ReloadTypeFull       ReloadMessageType = "reload"
	ReloadTypeCSS        ReloadMessageType = "css"
	ReloadTypeBuildStart ReloadMessageType = "buildstart"
	ReloadTypeBuildError ReloadMessageType = "builderror"
)

// ReloadMessage is the wire format pushed to connected browsers.
type ReloadMessage struct {
	Type  ReloadMessageType `json:"type"`
	Error string            `json:"error,omitempty"`
	File  string            `json:"file,omitempty"`
}

// upgrader accepts any origin. The reload endpoint only ever runs on a
// local dev server.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ReloadServer tracks live-reload WebSocket connections and pushes
// rebuild notifications to them.
type ReloadServer struct {
	mu    sync.Mutex
	socks map[string]*websocket.Conn
}

// NewReloadServer returns an empty reload server.
func NewReloadServer() *ReloadServer {
	return &ReloadServer{socks: make(map[string]*websocket.Conn)}
}

// HandleWebSocket upgrades the request and parks the connection until
// the browser goes away.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.socks[id] = conn
	r.mu.Unlock()
	telemetry.AddReloadClient()

	// Browsers never send anything meaningful; the read loop exists to
	// notice the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.drop(id)
}

// NotifyReload asks every connected browser to do a full page reload.
func (r *ReloadServer) NotifyReload() {
	r.push(ReloadMessage{Type: ReloadTypeFull})
}

// NotifyCSS asks browsers to refresh stylesheets without reloading.
func (r *ReloadServer) NotifyCSS(file string) {
	r.push(ReloadMessage{Type: ReloadTypeCSS, File: file})
}

// NotifyBuildStart announces a rebuild, clearing any error overlay.
func (r *ReloadServer) NotifyBuildStart() {
	r.push(ReloadMessage{Type: ReloadTypeBuildStart})
}

// NotifyBuildError shows the build error overlay on all clients.
func (r *ReloadServer) NotifyBuildError(errMsg string) {
	r.push(ReloadMessage{Type: ReloadTypeBuildError, Error: errMsg})
}

func (r *ReloadServer) push(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.Lock()
	snapshot := make(map[string]*websocket.Conn, len(r.socks))
	for id, conn := range r.socks {
		snapshot[id] = conn
	}
	r.mu.Unlock()

	var dead []string
	for id, conn := range snapshot {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		r.drop(id)
	}
}

func (r *ReloadServer) drop(id string) {
	r.mu.Lock()
	conn, ok := r.socks[id]
	delete(r.socks, id)
	r.mu.Unlock()

	if ok {
		conn.Close()
		telemetry.RemoveReloadClient()
	}
}

// ClientCount reports how many browsers are currently connected.
func (r *ReloadServer) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.socks)
}

// Close disconnects every client.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.socks))
	for id := range r.socks {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.drop(id)
	}
}

// ReloadClientScript is injected into served HTML pages in development
// mode. It connects back to ReloadPath and reacts to push messages.
const ReloadClientScript = `
<script>
(function() {
    'use strict';

    var wait = 1000;

    var handlers = {
        reload: function() {
            console.log('[routeutil] reloading page');
            location.reload();
        },
        css: function() {
            console.log('[routeutil] refreshing stylesheets');
            var links = document.querySelectorAll('link[rel="stylesheet"]');
            for (var i = 0; i < links.length; i++) {
                var url = new URL(links[i].href);
                url.searchParams.set('v', Date.now());
                links[i].href = url.toString();
            }
        },
        buildstart: function() {
            console.log('[routeutil] rebuilding');
            hideOverlay();
        },
        builderror: function(msg) {
            console.error('[routeutil] build failed:\n' + msg.error);
            showOverlay(msg.error);
        }
    };

    function open() {
        var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
        var ws = new WebSocket(scheme + location.host + '/_routeutil/reload');

        ws.onopen = function() {
            console.log('[routeutil] live reload ready');
            wait = 1000;
            hideOverlay();
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (_) {
                return;
            }
            var fn = handlers[msg.type];
            if (fn) fn(msg);
        };

        ws.onerror = function() {
            ws.close();
        };

        ws.onclose = function() {
            setTimeout(open, wait);
            wait = Math.min(wait + 1000, 15000);
        };
    }

    function showOverlay(text) {
        hideOverlay();

        var overlay = document.createElement('div');
        overlay.id = 'routeutil-overlay';
        overlay.style.cssText =
            'position:fixed;inset:0;z-index:2147483647;overflow:auto;' +
            'background:#16161d;color:#e8e8e8;font:13px/1.5 monospace;padding:2rem;';

        var heading = document.createElement('strong');
        heading.textContent = 'Build failed';
        heading.style.cssText = 'display:block;color:#f66;font-size:15px;margin-bottom:1rem;';

        var body = document.createElement('pre');
        body.textContent = text;
        body.style.cssText = 'white-space:pre-wrap;margin:0;';

        var note = document.createElement('small');
        note.textContent = 'Save a fix to rebuild and dismiss this.';
        note.style.cssText = 'display:block;color:#999;margin-top:1rem;';

        overlay.appendChild(heading);
        overlay.appendChild(body);
        overlay.appendChild(note);
        document.body.appendChild(overlay);
    }

    function hideOverlay() {
        var overlay = document.getElementById('routeutil-overlay');
        if (overlay) overlay.remove();
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', open);
    } else {
        open();
    }
})();
</script>
`
