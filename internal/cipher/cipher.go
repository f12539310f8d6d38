// Package cipher implements rotation (Caesar) cipher transforms and a
// frequency-based brute-force decoder. Everything here is pure and
// deterministic; the solver is best-effort against simple monoalphabetic
// shifts, not adversarial ciphertext.
package cipher

// Rotate shifts each alphabetic character of text by shift positions
// within its case's 26-letter alphabet. Non-alphabetic characters pass
// through unchanged. Negative shifts rotate backwards.
func Rotate(text string, shift int) string {
	shift = ((shift % 26) + 26) % 26
	if shift == 0 {
		return text
	}

	out := []byte(text)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = 'a' + (c-'a'+byte(shift))%26
		case c >= 'A' && c <= 'Z':
			out[i] = 'A' + (c-'A'+byte(shift))%26
		}
	}
	return string(out)
}

// ROT13 applies the fixed shift-13 rotation. It is its own inverse.
func ROT13(text string) string {
	return Rotate(text, 13)
}

// Decode reverses an encoding rotation of the given shift.
func Decode(text string, shift int) string {
	return Rotate(text, -shift)
}
