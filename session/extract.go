package session

import "strings"

// Extract returns the first quoted value following the quoted key in doc.
// The portal's token endpoints return loosely JSON-shaped text that is not
// guaranteed to parse, so the contract is positional: locate "key", then
// take the next double-quoted string after it. The boolean reports whether
// the key was present at all.
func Extract(doc, key string) (string, bool) {
	idx := strings.Index(doc, `"`+key+`"`)
	if idx < 0 {
		return "", false
	}
	rest := doc[idx+len(key)+2:]

	start := strings.IndexByte(rest, '"')
	if start < 0 {
		return "", false
	}
	rest = rest[start+1:]

	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
