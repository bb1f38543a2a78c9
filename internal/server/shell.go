package server

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/showgood/html-preview/internal/viewer"
)

// handleShell serves the viewer shell: an iframe plus the SSE client that
// applies navigate/eval commands, reports load completion, and posts the
// navigation key set for interception.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	keyNames := map[int]string{}
	for _, k := range viewer.NavigationKeys {
		keyNames[k.Code] = k.Name
	}
	keys, err := json.Marshal(keyNames)
	if err != nil {
		http.Error(w, "shell render failed", http.StatusInternalServerError)
		return
	}
	data := struct {
		Identity string
		Keys     template.JS
	}{
		Identity: s.opts.Identity,
		Keys:     template.JS(keys),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := shellTemplate.Execute(w, data); err != nil {
		slog.Debug("shell render", "error", err)
	}
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Identity}}</title>
<style>
html, body { margin: 0; height: 100%; }
iframe { border: 0; width: 100%; height: 100%; }
</style>
</head>
<body>
<iframe id="view" src="about:blank"></iframe>
<script>
(function () {
  var keyNames = {{.Keys}};
  var frame = document.getElementById('view');

  frame.addEventListener('load', function () {
    if (frame.src !== 'about:blank') {
      fetch('/api/loaded', { method: 'POST' });
    }
  });

  var source = new EventSource('/events');
  source.onmessage = function (ev) {
    var cmd = JSON.parse(ev.data);
    if (cmd.type === 'navigate') {
      frame.src = cmd.value;
    } else if (cmd.type === 'eval') {
      try {
        frame.contentWindow.eval(cmd.value);
      } catch (e) {
        console.warn('eval failed', e);
      }
    }
  };

  document.addEventListener('keydown', function (e) {
    var name = keyNames[e.keyCode];
    if (!name) return;
    e.preventDefault();
    fetch('/api/key', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ key: name })
    });
  });
})();
</script>
</body>
</html>
`))
