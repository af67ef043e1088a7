package schema

import (
	"strings"
	"unicode"
)

// ShortSHA returns the first 8 characters of a commit hash, or the hash
// unchanged when it is shorter than that.
func ShortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// FirstLine returns the subject line of a commit message, trimmed.
func FirstLine(message string) string {
	line := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		line = message[:idx]
	}
	return strings.TrimSpace(line)
}

// StripConventionalPrefix removes a leading conventional-commit prefix such
// as "feat: " or "fix(scope): " from a commit subject line.
func StripConventionalPrefix(subject string) string {
	if idx := strings.Index(subject, ": "); idx >= 0 && idx < 24 {
		return strings.TrimSpace(subject[idx+2:])
	}
	return strings.TrimSpace(subject)
}

// Slugify converts a decision title into a lowercase, hyphen-separated slug
// suitable for ADR file names. Non-alphanumeric runs collapse into single
// hyphens and the result is capped at maxLen runes.
func Slugify(title string, maxLen int) string {
	var b strings.Builder
	lastHyphen := true // Suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if maxLen > 0 {
		rr := []rune(slug)
		if len(rr) > maxLen {
			slug = strings.Trim(string(rr[:maxLen]), "-")
		}
	}
	return slug
}

// Title returns the display title for a mined decision: the ADR decision
// text's first sentence when present, otherwise the first member commit's
// subject line.
func (d *MinedDecision) Title() string {
	if d.ADR.Decision != "" {
		title := d.ADR.Decision
		if idx := strings.IndexAny(title, ".\n"); idx > 0 {
			title = title[:idx]
		}
		return strings.TrimSpace(title)
	}
	if len(d.Cluster.SHAs) > 0 {
		return ShortSHA(d.Cluster.SHAs[0])
	}
	return d.ID
}
