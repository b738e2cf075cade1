package mapview

import "html/template"

// indexTemplate is the map page. Leaflet draws the admin's area circle and
// one colored marker per alert; data comes from /api/map-data.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>RoadWatch Map</title>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>
    html, body, #map { height: 100%; margin: 0; }
  </style>
</head>
<body>
  <div id="map"></div>
  <script>
    fetch('/api/map-data')
      .then(function (resp) {
        if (!resp.ok) throw new Error('map data fetch failed: ' + resp.status);
        return resp.json();
      })
      .then(function (data) {
        var area = data.area;
        var map = L.map('map').setView([area.latitude, area.longitude], 12);
        L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
          attribution: '&copy; OpenStreetMap contributors'
        }).addTo(map);

        L.marker([area.latitude, area.longitude])
          .addTo(map)
          .bindPopup(area.name + ' (radius ' + area.radius + ' km)');
        L.circle([area.latitude, area.longitude], {
          radius: area.radius * 1000,
          color: 'blue',
          fillColor: 'blue',
          fillOpacity: 0.2
        }).addTo(map);

        (data.markers || []).forEach(function (m) {
          L.circleMarker([m.latitude, m.longitude], {
            radius: 8,
            color: m.color,
            fillColor: m.color,
            fillOpacity: 0.8
          }).addTo(map).bindPopup(m.description + ' (severity: ' + m.severity + ')');
        });
      })
      .catch(function (err) {
        document.body.innerHTML = '<p>' + err.message + '</p>';
      });
  </script>
</body>
</html>
`))
