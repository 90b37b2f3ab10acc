package model

type SeedResponse struct {
	SongFile string `json:"song_file"`
	Bars     int    `json:"bars"`
	Text     string `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
