package connection

// Width, Height and Mines are only read for the custom difficulty.
type ReqCreateGame struct {
	Difficulty uint8   `json:"difficulty"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Mines      int     `json:"mines"`
	Seed       *uint64 `json:"seed,omitempty"`
}

type ReqMove struct {
	GameUuid string `json:"game_uuid"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type ReqBoard struct {
	GameUuid string `json:"game_uuid"`
}
