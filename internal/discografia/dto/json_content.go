package dto

// JSONContent represents the content-detail API response for one track.
//
// Only the audio portion of the response is consumed; the remaining fields
// (creator, recordingOf) duplicate what the tracklist fragment already
// provides.
type JSONContent struct {
	Audio []JSONAudio `json:"audio"`
}

// JSONAudio is one audio entry of a content document.
type JSONAudio struct {
	ContentURL []JSONContentURL `json:"contentUrl"`
}

// JSONContentURL wraps the site's annotated URL value.
type JSONContentURL struct {
	Value string `json:"@value"`
}

// FirstAudioURL returns the first resolvable audio URL of the document,
// mirroring audio[0].contentUrl[0]["@value"] in the raw response. The
// second return value is false when any level of that path is missing
// or empty.
func (c *JSONContent) FirstAudioURL() (string, bool) {
	if len(c.Audio) == 0 || len(c.Audio[0].ContentURL) == 0 {
		return "", false
	}
	url := c.Audio[0].ContentURL[0].Value
	return url, url != ""
}
