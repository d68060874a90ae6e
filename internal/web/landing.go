package web

import "net/http"

const frontendHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Security Assessment Chatbot</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
  .card { max-width: 720px; width: 94%; background: #1e293b; border-radius: 12px; padding: 2rem; box-shadow: 0 25px 50px rgba(0,0,0,0.4); margin: 2rem 0; }
  h1 { font-size: 1.5rem; margin-bottom: 0.25rem; color: #f8fafc; }
  .subtitle { color: #94a3b8; margin-bottom: 1.5rem; font-size: 0.9rem; }
  .section-title { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.1em; color: #64748b; margin: 1rem 0 0.5rem; }
  #docs li { list-style: none; padding: 0.3rem 0.5rem; background: #0f172a; border-radius: 6px; margin-bottom: 0.3rem; font-size: 0.85rem; display: flex; justify-content: space-between; }
  #docs button { background: none; border: none; color: #f87171; cursor: pointer; }
  #chat { background: #0f172a; border: 1px solid #334155; border-radius: 8px; padding: 1rem; height: 280px; overflow-y: auto; font-size: 0.9rem; line-height: 1.5; white-space: pre-wrap; }
  .row { display: flex; gap: 0.5rem; margin-top: 0.75rem; }
  input[type=text] { flex: 1; background: #0f172a; border: 1px solid #334155; border-radius: 8px; padding: 0.6rem; color: #e2e8f0; }
  button.primary { background: #38bdf8; color: #0f172a; border: none; border-radius: 8px; padding: 0.6rem 1rem; cursor: pointer; font-weight: 600; }
  .user { color: #a5b4fc; }
  .assistant { color: #e2e8f0; }
  .error { color: #f87171; }
</style>
</head>
<body>
<div class="card">
  <h1>Security Assessment Chatbot</h1>
  <p class="subtitle">Upload security policies and questionnaires, then ask for a compliance review.</p>

  <div class="section-title">Documents</div>
  <input type="file" id="file">
  <button class="primary" onclick="upload()">Upload</button>
  <button class="primary" onclick="clearDocs()">Clear all</button>
  <ul id="docs"></ul>

  <div class="section-title">Chat</div>
  <div id="chat"></div>
  <div class="row">
    <input type="text" id="message" placeholder="Check compliance..." onkeydown="if(event.key==='Enter')send()">
    <button class="primary" onclick="send()">Send</button>
  </div>
</div>
<script>
const docs = new Map();

function renderDocs() {
  const ul = document.getElementById('docs');
  ul.innerHTML = '';
  for (const [id, name] of docs) {
    const li = document.createElement('li');
    li.textContent = name + ' ';
    const del = document.createElement('button');
    del.textContent = 'remove';
    del.onclick = () => fetch('/delete/' + id, {method: 'DELETE'}).then(() => { docs.delete(id); renderDocs(); });
    li.appendChild(del);
    ul.appendChild(li);
  }
}

async function upload() {
  const input = document.getElementById('file');
  if (!input.files.length) return;
  const form = new FormData();
  form.append('file', input.files[0]);
  const res = await fetch('/upload', {method: 'POST', body: form});
  const body = await res.json();
  if (!res.ok) { append('error', body.error); return; }
  docs.set(body.file_id, body.filename);
  input.value = '';
  renderDocs();
}

async function clearDocs() {
  await fetch('/clear', {method: 'POST'});
  docs.clear();
  renderDocs();
}

function append(cls, text) {
  const chat = document.getElementById('chat');
  const div = document.createElement('div');
  div.className = cls;
  div.textContent = text;
  chat.appendChild(div);
  chat.scrollTop = chat.scrollHeight;
  return div;
}

async function send() {
  const input = document.getElementById('message');
  const message = input.value.trim();
  if (!message) return;
  input.value = '';
  append('user', 'You: ' + message);

  const res = await fetch('/chat', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({message: message, file_ids: [...docs.keys()], stream: true}),
  });
  if (!res.ok) {
    const body = await res.json();
    append('error', body.error);
    return;
  }

  const out = append('assistant', '');
  const reader = res.body.getReader();
  const decoder = new TextDecoder();
  let buf = '';
  for (;;) {
    const {done, value} = await reader.read();
    if (done) break;
    buf += decoder.decode(value, {stream: true});
    const events = buf.split('\n\n');
    buf = events.pop();
    for (const ev of events) {
      if (!ev.startsWith('data: ')) continue;
      const payload = JSON.parse(ev.slice(6));
      if (payload.error) { append('error', payload.error); return; }
      if (!payload.done) out.textContent += payload.response;
    }
  }
}
</script>
</body>
</html>`

// handleLanding serves the embedded chat frontend at /.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(frontendHTML))
}
