package meta

import (
	"os"
	"strconv"

	"github.com/dhowden/tag"

	"github.com/RyanBlaney/sonido-inspect/logging"
)

// Unknown is the explicit marker for metadata fields that could not be
// read. Fields are never left empty; "empty" and "unknown" must stay
// distinguishable to consumers.
const Unknown = "Unknown"

// Tags holds the common metadata tags of an audio file. Every field is
// populated; missing values carry the Unknown marker.
type Tags struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Album  string `json:"album"`
	Year   string `json:"year"`
	Genre  string `json:"genre"`
}

// UnknownTags returns a Tags value with every field marked Unknown
func UnknownTags() Tags {
	return Tags{
		Artist: Unknown,
		Title:  Unknown,
		Album:  Unknown,
		Year:   Unknown,
		Genre:  Unknown,
	}
}

// ReadTags reads metadata tags from an audio file. A file without
// readable tags is not an error: all fields come back Unknown and the
// analysis run proceeds.
func ReadTags(path string) Tags {
	logger := logging.WithFields(logging.Fields{
		"component": "metadata",
		"function":  "ReadTags",
		"path":      path,
	})

	tags := UnknownTags()

	file, err := os.Open(path)
	if err != nil {
		logger.Debug("Failed to open file for tag reading", logging.Fields{"error": err.Error()})
		return tags
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil {
		// No tags in the file (raw WAV, stripped MP3, ...)
		logger.Debug("No readable tags", logging.Fields{"error": err.Error()})
		return tags
	}

	tags.Artist = orUnknown(m.Artist())
	tags.Title = orUnknown(m.Title())
	tags.Album = orUnknown(m.Album())
	tags.Genre = orUnknown(m.Genre())
	if year := m.Year(); year > 0 {
		tags.Year = strconv.Itoa(year)
	}

	return tags
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
