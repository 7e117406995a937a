package bot

import "strings"

// ===========================================================================
// Phone Extractor
// ===========================================================================

// minPhoneDigits shortest digit run accepted as a phone number
const minPhoneDigits = 9

// maxPhoneDigits longest number kept; longer runs keep the last digits
const maxPhoneDigits = 11

// ExtractPhone pulls a phone number out of free text. All non-digit
// characters are stripped; the candidate is accepted when at least 9
// digits remain, keeping at most the last 11.
func ExtractPhone(text string) (string, bool) {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) < minPhoneDigits {
		return "", false
	}
	if len(digits) > maxPhoneDigits {
		digits = digits[len(digits)-maxPhoneDigits:]
	}
	return digits, true
}
