package genius

// Wire types for the Genius API responses we touch.

type searchResponse struct {
	Response struct {
		Hits []searchHit `json:"hits"`
	} `json:"response"`
}

type searchHit struct {
	Type   string `json:"type"`
	Result struct {
		ID            int64  `json:"id"`
		Title         string `json:"title"`
		ArtistNames   string `json:"artist_names"`
		Path          string `json:"path"`
		URL           string `json:"url"`
		PrimaryArtist struct {
			Name string `json:"name"`
		} `json:"primary_artist"`
	} `json:"result"`
}

func (h searchHit) artistName() string {
	if h.Result.ArtistNames != "" {
		return h.Result.ArtistNames
	}
	return h.Result.PrimaryArtist.Name
}

type songResponse struct {
	Response struct {
		Song struct {
			ID   int64  `json:"id"`
			Path string `json:"path"`
			URL  string `json:"url"`
		} `json:"song"`
	} `json:"response"`
}
