package remote

const homePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>showcase remote</title>
<style>
body { font-family: sans-serif; background: #0b0f14; color: #ddd; margin: 2em; }
button, input { margin: 0.3em; }
pre { background: #111820; padding: 1em; }
</style>
</head>
<body>
<h1>showcase remote</h1>
<button id="enter">Enter</button>
<button id="reset">Reset view</button>
<input type="color" id="color" value="#337ab7">
<div>
<button class="panel" data-panel="0">Model</button>
<button class="panel" data-panel="1">Controls</button>
<button class="panel" data-panel="2">About</button>
</div>
<pre id="state">connecting...</pre>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
const send = (cmd) => ws.send(JSON.stringify(cmd));
ws.onmessage = (e) => { document.getElementById("state").textContent = JSON.stringify(JSON.parse(e.data), null, 2); };
document.getElementById("enter").onclick = () => send({op: "enter"});
document.getElementById("reset").onclick = () => send({op: "reset"});
document.getElementById("color").oninput = (e) => send({op: "color", value: e.target.value});
document.querySelectorAll(".panel").forEach(b => b.onclick = () => send({op: "toggle", panel: Number(b.dataset.panel)}));
</script>
</body>
</html>
`
