package codec

// Linux input event types.
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvRel = 0x02
	EvAbs = 0x03
	EvMsc = 0x04
	EvLed = 0x11
	EvRep = 0x14
)

// Relative axes.
const (
	RelX      = 0x00
	RelY      = 0x01
	RelHWheel = 0x06
	RelWheel  = 0x08
)

// Mouse button key codes.
const (
	BtnLeft   = 272
	BtnRight  = 273
	BtnMiddle = 274
)

var eventTypeNames = map[uint16]string{
	EvSyn: "SYN", EvKey: "KEY", EvRel: "REL", EvAbs: "ABS",
	EvMsc: "MSC", EvLed: "LED", EvRep: "REP",
}

// KeycodeNames maps key/button codes to display names. Codes missing from
// the table get a generated KEY_<code> label instead of being dropped.
var KeycodeNames = map[uint16]string{
	1: "ESC", 2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7",
	9: "8", 10: "9", 11: "0", 12: "MINUS", 13: "EQUAL", 14: "BACKSPACE",
	15: "TAB", 16: "Q", 17: "W", 18: "E", 19: "R", 20: "T", 21: "Y",
	22: "U", 23: "I", 24: "O", 25: "P", 26: "[", 27: "]", 28: "ENTER",
	29: "L_CTRL", 30: "A", 31: "S", 32: "D", 33: "F", 34: "G", 35: "H",
	36: "J", 37: "K", 38: "L", 39: ";", 40: "'", 41: "GRAVE", 42: "L_SHIFT",
	43: "\\", 44: "Z", 45: "X", 46: "C", 47: "V", 48: "B", 49: "N",
	50: "M", 51: ",", 52: ".", 53: "/", 54: "R_SHIFT", 55: "KP_*",
	56: "L_ALT", 57: "SPACE", 58: "CAPS_LOCK", 59: "F1", 60: "F2",
	61: "F3", 62: "F4", 63: "F5", 64: "F6", 65: "F7", 66: "F8",
	67: "F9", 68: "F10", 69: "NUM_LOCK", 70: "SCROLL_LK",
	71: "KP_7", 72: "KP_8", 73: "KP_9", 74: "KP_-",
	75: "KP_4", 76: "KP_5", 77: "KP_6", 78: "KP_+",
	79: "KP_1", 80: "KP_2", 81: "KP_3", 82: "KP_0", 83: "KP_.",
	87: "F11", 88: "F12",
	96: "KP_ENTER", 97: "R_CTRL", 98: "KP_/",
	100: "R_ALT", 102: "HOME", 103: "UP", 104: "PAGE_UP",
	105: "LEFT", 106: "RIGHT", 107: "END", 108: "DOWN", 109: "PAGE_DN",
	110: "INSERT", 111: "DELETE",
	113: "MUTE", 114: "VOL-", 115: "VOL+",
	125: "L_META", 126: "R_META", 127: "MENU",
	163: "NEXT", 164: "PLAY/PAUSE", 165: "PREV", 166: "STOP",
	// Mouse buttons
	272: "BTN_LEFT", 273: "BTN_RIGHT", 274: "BTN_MIDDLE",
	275: "BTN_SIDE", 276: "BTN_EXTRA", 330: "BTN_TOUCH",
}

var relAxisNames = map[uint16]string{
	RelX: "X", RelY: "Y", RelWheel: "WHEEL", RelHWheel: "HWHEEL",
}

var absAxisNames = map[uint16]string{
	0: "ABS_X", 1: "ABS_Y", 24: "ABS_PRESSURE",
	47: "ABS_MT_SLOT", 53: "ABS_MT_X", 54: "ABS_MT_Y",
	57: "ABS_MT_TRACKING_ID", 58: "ABS_MT_PRESSURE",
}
