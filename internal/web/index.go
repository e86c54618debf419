package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>papervault</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <style>
    body { margin:0; padding:2rem; background:#ffffff; color:#111111; font-family:monospace; }
    h1 { font-size:1rem; text-transform:uppercase; letter-spacing:.2em; }
    #stats { display:flex; gap:2rem; margin-bottom:1.5rem; font-size:.8rem; }
    #stats b { display:block; font-size:1.1rem; }
    #chart-wrap { border:2px solid #111; padding:1rem; background:#f6f6f6; }
  </style>
</head>
<body>
  <h1>papervault equity curve</h1>
  <div id="stats">
    <div>value <b id="value">-</b></div>
    <div>total return % <b id="total">-</b></div>
    <div>last return % <b id="daily">-</b></div>
    <div>price <b id="price">-</b></div>
  </div>
  <div id="chart-wrap"><canvas id="equity" height="90"></canvas></div>
  <script>
    const chart = new Chart(document.getElementById('equity'), {
      type: 'line',
      data: { labels: [], datasets: [{ label: 'portfolio value', data: [], borderColor: '#111', pointRadius: 0, tension: .15 }] },
      options: { animation: false, plugins: { legend: { display: false } } }
    });

    const source = new EventSource('/portfolio/stream');
    source.addEventListener('portfolio', (e) => {
      const snap = JSON.parse(e.data);
      chart.data.labels.push(new Date(snap.timestamp).toLocaleTimeString());
      chart.data.datasets[0].data.push(Number(snap.portfolio_value));
      if (chart.data.labels.length > 500) {
        chart.data.labels.shift();
        chart.data.datasets[0].data.shift();
      }
      chart.update();
      document.getElementById('value').textContent = Number(snap.portfolio_value).toFixed(2);
      document.getElementById('total').textContent = Number(snap.total_return).toFixed(3);
      document.getElementById('daily').textContent = Number(snap.daily_return).toFixed(3);
      document.getElementById('price').textContent = Number(snap.price).toFixed(2);
    });
  </script>
</body>
</html>`
