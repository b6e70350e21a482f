package util

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsLetterOrUnderscore(b byte) bool {
	return IsLetter(b) || IsUnderScore(b)
}

func IsLetterOrUnderscoreOrNumber(b byte) bool {
	return IsLetter(b) || IsUnderScore(b) || IsNumber(b)
}

// IsBlank reports whether b separates tokens without being one. Line breaks
// are not blank: the vm lexer treats them as token boundaries on their own.
func IsBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\v'
}

func IsLineBreak(b byte) bool {
	return b == '\n' || b == '\r'
}

// MaxConstant is the largest value an A instruction can load.
const MaxConstant = 32767
