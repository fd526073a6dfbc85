package speech

import "strings"

// PickVoice selects the voice to use: the preferred id when present,
// otherwise the first voice whose language tag starts with language, and
// finally the first voice. It returns false when voices is empty.
func PickVoice(voices []Voice, language string, preferredID string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	if preferredID != "" {
		for _, v := range voices {
			if v.ID == preferredID {
				return v, true
			}
		}
	}
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = "en"
	}
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.LanguageTag), lang) {
			return v, true
		}
	}
	return voices[0], true
}
