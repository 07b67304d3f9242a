package dedihelper

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Launcher exports mark the cells we care about with a data-type
// attribute of DisplayName or Link.
const (
	attrDataType     = "data-type"
	valueDisplayName = "DisplayName"
	valueLink        = "Link"
)

// Mod is a single entry from an exported preset: the add-on's display
// name and its workshop page link.
type Mod struct {
	Name string
	Link string
}

// The extractor is a tiny state machine keyed off the data-type
// attribute of the most recent start tag.
type parseState int

const (
	stateIdle parseState = iota
	stateAwaitingName
	stateAwaitingLink
)

// ParseMods extracts (name, link) pairs from an A3 Launcher preset
// export, in document order. Text inside a DisplayName or Link element
// fills the matching slot; an element close emits a pair when both
// slots are filled and always resets the marker. A repeated display
// name keeps its original position but takes the last link seen.
func ParseMods(r io.Reader) ([]Mod, error) {
	tok := html.NewTokenizer(r)

	mods := []Mod{}
	index := make(map[string]int)

	var (
		state              parseState
		name, link         string
		haveName, haveLink bool
	)

	for {
		switch tok.Next() {
		case html.ErrorToken:
			if err := tok.Err(); err != io.EOF {
				return nil, fmt.Errorf("parse preset: %w", err)
			}
			return mods, nil

		case html.StartTagToken:
			_, hasAttr := tok.TagName()
			state = stateIdle
			for hasAttr {
				key, val, more := tok.TagAttr()
				if string(key) == attrDataType {
					switch string(val) {
					case valueDisplayName:
						state = stateAwaitingName
					case valueLink:
						state = stateAwaitingLink
					}
					break
				}
				if !more {
					break
				}
			}

		case html.TextToken:
			switch state {
			case stateAwaitingName:
				name = strings.TrimSpace(string(tok.Text()))
				haveName = true
			case stateAwaitingLink:
				link = strings.TrimSpace(string(tok.Text()))
				haveLink = true
			}

		case html.EndTagToken:
			if haveName && haveLink {
				if i, seen := index[name]; seen {
					mods[i].Link = link
				} else {
					index[name] = len(mods)
					mods = append(mods, Mod{Name: name, Link: link})
				}
				name, link = "", ""
				haveName, haveLink = false, false
			}
			state = stateIdle
		}
	}
}

// ModID returns the workshop content ID embedded in a mod link, the
// text strictly after the last '=' in the URL. ok is false when the
// link carries no '=' at all.
func ModID(link string) (id string, ok bool) {
	i := strings.LastIndex(link, "=")
	if i < 0 {
		return "", false
	}
	return link[i+1:], true
}

// PresetName derives a profile name from a preset file path: the text
// between the last path separator and the last dot. Windows exports
// travel between machines, so both separator flavors count.
func PresetName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		path = path[:i]
	}
	return path
}
