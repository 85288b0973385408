package inject

// Left-shift scancodes used to bracket shifted characters.
const (
	shiftPress   = "0x2A"
	shiftRelease = "0xAA"
)

// textToScancode maps lowercase letters, digits and unshifted symbols to
// AT set-1 make codes.
var textToScancode = map[rune]byte{
	'a': 0x1E, 'b': 0x30, 'c': 0x2E, 'd': 0x20, 'e': 0x12,
	'f': 0x21, 'g': 0x22, 'h': 0x23, 'i': 0x17, 'j': 0x24,
	'k': 0x25, 'l': 0x26, 'm': 0x32, 'n': 0x31, 'o': 0x18,
	'p': 0x19, 'q': 0x10, 'r': 0x13, 's': 0x1F, 't': 0x14,
	'u': 0x16, 'v': 0x2F, 'w': 0x11, 'x': 0x2D, 'y': 0x15,
	'z': 0x2C, '1': 0x02, '2': 0x03, '3': 0x04, '4': 0x05,
	'5': 0x06, '6': 0x07, '7': 0x08, '8': 0x09, '9': 0x0A,
	'0': 0x0B, ' ': 0x39, '\n': 0x1C, '\t': 0x0F, '-': 0x0C,
	'=': 0x0D, '[': 0x1A, ']': 0x1B, '\\': 0x2B, ';': 0x27,
	'\'': 0x28, '`': 0x29, ',': 0x33, '.': 0x34, '/': 0x35,
}

// shiftChars maps characters that need Shift held to their unshifted
// base character.
var shiftChars = map[rune]rune{
	'A': 'a', 'B': 'b', 'C': 'c', 'D': 'd', 'E': 'e', 'F': 'f',
	'G': 'g', 'H': 'h', 'I': 'i', 'J': 'j', 'K': 'k', 'L': 'l',
	'M': 'm', 'N': 'n', 'O': 'o', 'P': 'p', 'Q': 'q', 'R': 'r',
	'S': 's', 'T': 't', 'U': 'u', 'V': 'v', 'W': 'w', 'X': 'x',
	'Y': 'y', 'Z': 'z', '!': '1', '@': '2', '#': '3', '$': '4',
	'%': '5', '^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', '|': '\\', ':': ';',
	'"': '\'', '~': '`', '<': ',', '>': '.', '?': '/',
}
