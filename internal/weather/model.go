package weather

// Snapshot is a current-conditions reading with display-ready integer
// temperatures and wind speed (km/h).
type Snapshot struct {
	City        string `json:"city"`
	Temp        int    `json:"temp"`
	Feels       int    `json:"feels"`
	Description string `json:"description"`
	Humidity    int    `json:"humidity"`
	Wind        int    `json:"wind"`
}
